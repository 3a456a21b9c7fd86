// Package store owns the in-memory goal collection and its id counter.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"goal-app/src/domain"

	"github.com/sirupsen/logrus"
)

// GoalStore holds the authoritative goal collection. A single mutex is held
// from mutation through persistence, so no caller observes a change before
// it has been saved.
type GoalStore struct {
	mu        sync.Mutex
	goals     []domain.Goal
	nextID    int
	persister domain.GoalPersister
	clock     func() time.Time
	logger    *logrus.Logger
}

// Option configures a GoalStore
type Option func(*GoalStore)

// WithClock replaces time.Now
func WithClock(clock func() time.Time) Option {
	return func(s *GoalStore) {
		s.clock = clock
	}
}

// NewGoalStore loads the persisted collection and returns a ready store
func NewGoalStore(ctx context.Context, persister domain.GoalPersister, logger *logrus.Logger, opts ...Option) (*GoalStore, error) {
	s := &GoalStore{
		persister: persister,
		clock:     time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	goals, err := persister.Load(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	s.goals = goals
	s.nextID = domain.MaxID(goals) + 1

	logger.WithFields(logrus.Fields{
		"goals":   len(goals),
		"next_id": s.nextID,
	}).Info("goal store loaded")

	return s, nil
}

// Now returns the store clock's current time
func (s *GoalStore) Now() time.Time {
	return s.clock()
}

// Snapshot returns a copy of the collection in its current order
func (s *GoalStore) Snapshot() []domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.goals)
}

// Len returns the number of stored goals
func (s *GoalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.goals)
}

// NextID returns the id the next created goal will receive
func (s *GoalStore) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// NewGoal describes a goal to be created; fields are already validated
type NewGoal struct {
	Title    string
	Priority domain.Priority
	DueDate  *string
}

// Create assigns the next id, appends the goal and persists
func (s *GoalStore) Create(ctx context.Context, in NewGoal) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := domain.Goal{
		ID:        s.nextID,
		Title:     strings.TrimSpace(in.Title),
		Priority:  in.Priority,
		DueDate:   in.DueDate,
		CreatedAt: s.clock(),
	}
	s.nextID++
	s.goals = append(s.goals, g)

	if err := s.persist(ctx, "create"); err != nil {
		return nil, err
	}
	return &g, nil
}

// Update applies the supplied fields of in to goal id and persists
func (s *GoalStore) Update(ctx context.Context, id int, in domain.UpdateGoalInput) (*domain.Goal, error) {
	return s.mutate(ctx, "update", id, func(g *domain.Goal) {
		if in.Title.HasValue() {
			g.Title = strings.TrimSpace(in.Title.Value)
		}
		if in.Priority.HasValue() {
			g.Priority = domain.Priority(in.Priority.Value)
		}
		if in.DueDate.Set {
			if in.DueDate.Null {
				g.DueDate = nil
			} else {
				due := in.DueDate.Value
				g.DueDate = &due
			}
		}
		if in.Archived.HasValue() {
			g.Archived = in.Archived.Value
		}
	})
}

// ToggleCompleted flips the completed flag of goal id
func (s *GoalStore) ToggleCompleted(ctx context.Context, id int) (*domain.Goal, error) {
	return s.mutate(ctx, "toggle", id, func(g *domain.Goal) {
		g.Completed = !g.Completed
	})
}

// SetArchived sets the archived flag of goal id, or flips it when value is nil
func (s *GoalStore) SetArchived(ctx context.Context, id int, value *bool) (*domain.Goal, error) {
	return s.mutate(ctx, "archive", id, func(g *domain.Goal) {
		if value == nil {
			g.Archived = !g.Archived
			return
		}
		g.Archived = *value
	})
}

// Delete removes goal id
func (s *GoalStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &domain.NotFoundError{ID: id}
	}
	s.goals = slices.Delete(s.goals, i, i+1)

	return s.persist(ctx, "delete")
}

// CompleteAll marks every incomplete goal completed and returns how many flipped
func (s *GoalStore) CompleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.goals {
		if !s.goals[i].Completed {
			s.goals[i].Completed = true
			updated++
		}
	}

	if err := s.persist(ctx, "complete-all"); err != nil {
		return 0, err
	}
	return updated, nil
}

// ClearCompleted deletes every completed goal and returns how many were removed
func (s *GoalStore) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.goals)
	s.goals = slices.DeleteFunc(s.goals, func(g domain.Goal) bool {
		return g.Completed
	})
	deleted := before - len(s.goals)

	if err := s.persist(ctx, "clear-completed"); err != nil {
		return 0, err
	}
	return deleted, nil
}

// DuplicateForTomorrow copies title and priority of goal id into a new,
// incomplete goal due one calendar day after today
func (s *GoalStore) DuplicateForTomorrow(ctx context.Context, id int) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, &domain.NotFoundError{ID: id}
	}
	src := s.goals[i]

	now := s.clock()
	due := domain.Tomorrow(now)
	g := domain.Goal{
		ID:        s.nextID,
		Title:     src.Title,
		Priority:  src.Priority,
		DueDate:   &due,
		CreatedAt: now,
	}
	s.nextID++
	s.goals = append(s.goals, g)

	if err := s.persist(ctx, "duplicate"); err != nil {
		return nil, err
	}
	return &g, nil
}

// Import captures nextId, builds a batch from it and installs the batch,
// all under the store lock. A build error leaves the collection untouched.
// Replace mode discards existing goals; merge appends after them.
func (s *GoalStore) Import(ctx context.Context, mode domain.ImportMode, build func(baseID int) ([]domain.Goal, error)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := build(s.nextID)
	if err != nil {
		return 0, err
	}

	if mode == domain.ImportMerge {
		s.goals = append(s.goals, batch...)
	} else {
		s.goals = slices.Clone(batch)
	}
	s.nextID = domain.MaxID(s.goals) + 1

	if err := s.persist(ctx, "import "+string(mode)); err != nil {
		return 0, err
	}
	return len(s.goals), nil
}

func (s *GoalStore) mutate(ctx context.Context, op string, id int, apply func(*domain.Goal)) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, &domain.NotFoundError{ID: id}
	}
	apply(&s.goals[i])
	g := s.goals[i]

	if err := s.persist(ctx, op); err != nil {
		return nil, err
	}
	return &g, nil
}

// indexOf returns the position of the first goal with id, or -1
func (s *GoalStore) indexOf(id int) int {
	return slices.IndexFunc(s.goals, func(g domain.Goal) bool {
		return g.ID == id
	})
}

// persist must be called with s.mu held
func (s *GoalStore) persist(ctx context.Context, op string) error {
	if err := s.persister.Save(ctx, slices.Clone(s.goals)); err != nil {
		s.logger.WithError(err).WithField("op", op).Error("failed to persist goals")
		return &domain.PersistenceError{Op: fmt.Sprintf("save after %s", op), Err: err}
	}
	return nil
}
