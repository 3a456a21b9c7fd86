package domain

import "context"

// GoalPersister reads and writes the whole goal collection.
// Load returns an empty slice when nothing has been stored yet.
type GoalPersister interface {
	Load(ctx context.Context) ([]Goal, error)
	Save(ctx context.Context, goals []Goal) error
}
