package usecase_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"goal-app/src/domain"
	"goal-app/src/store"
	"goal-app/src/usecase"
	"goal-app/src/validator"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)

type memoryPersister struct {
	mu    sync.Mutex
	goals []domain.Goal
	saves int
}

func (p *memoryPersister) Load(ctx context.Context) ([]domain.Goal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.goals, nil
}

func (p *memoryPersister) Save(ctx context.Context, goals []domain.Goal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.goals = goals
	p.saves++
	return nil
}

func newUsecase(t *testing.T, initial ...domain.Goal) (usecase.GoalUsecase, *store.GoalStore, *memoryPersister) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	p := &memoryPersister{goals: initial}
	s, err := store.NewGoalStore(context.Background(), p, logger, store.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	return usecase.NewGoalUsecase(s, validator.NewGoalValidator(), logger), s, p
}
