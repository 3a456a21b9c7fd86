package store_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"goal-app/src/domain"
	"goal-app/src/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)

// memoryPersister records every saved collection
type memoryPersister struct {
	mu      sync.Mutex
	initial []domain.Goal
	saved   [][]domain.Goal
	saveErr error
	loadErr error
}

func (p *memoryPersister) Load(ctx context.Context) ([]domain.Goal, error) {
	return p.initial, p.loadErr
}

func (p *memoryPersister) Save(ctx context.Context, goals []domain.Goal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saved = append(p.saved, goals)
	return nil
}

func (p *memoryPersister) last() []domain.Goal {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saved) == 0 {
		return nil
	}
	return p.saved[len(p.saved)-1]
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newStore(t *testing.T, p *memoryPersister) *store.GoalStore {
	t.Helper()
	s, err := store.NewGoalStore(context.Background(), p, testLogger(), store.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return s
}

func create(t *testing.T, s *store.GoalStore, title string) *domain.Goal {
	t.Helper()
	g, err := s.Create(context.Background(), store.NewGoal{Title: title, Priority: domain.PriorityMedium})
	require.NoError(t, err)
	return g
}

func TestNewGoalStore(t *testing.T) {
	t.Run("empty storage starts at id 1", func(t *testing.T) {
		s := newStore(t, &memoryPersister{})
		assert.Equal(t, 1, s.NextID())
		assert.Equal(t, 0, s.Len())
	})

	t.Run("next id follows the largest loaded id", func(t *testing.T) {
		s := newStore(t, &memoryPersister{initial: []domain.Goal{{ID: 4}, {ID: 11}, {ID: 2}}})
		assert.Equal(t, 12, s.NextID())
		assert.Equal(t, 3, s.Len())
	})

	t.Run("load failure", func(t *testing.T) {
		_, err := store.NewGoalStore(context.Background(), &memoryPersister{loadErr: errors.New("corrupt")}, testLogger())
		var perr *domain.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "load", perr.Op)
	})
}

func TestCreate(t *testing.T) {
	p := &memoryPersister{}
	s := newStore(t, p)

	g := create(t, s, "  Read 10 pages  ")

	assert.Equal(t, 1, g.ID)
	assert.Equal(t, "Read 10 pages", g.Title)
	assert.Equal(t, domain.PriorityMedium, g.Priority)
	assert.False(t, g.Completed)
	assert.False(t, g.Archived)
	assert.Equal(t, fixedNow, g.CreatedAt)
	assert.Equal(t, 2, s.NextID())
	assert.Len(t, p.last(), 1)
}

func TestCreate_IDsIncreaseAfterDelete(t *testing.T) {
	s := newStore(t, &memoryPersister{})
	create(t, s, "a")
	second := create(t, s, "b")

	require.NoError(t, s.Delete(context.Background(), second.ID))
	third := create(t, s, "c")

	assert.Equal(t, 3, third.ID)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &memoryPersister{})
	g := create(t, s, "Run")

	updated, err := s.Update(ctx, g.ID, domain.UpdateGoalInput{
		Title:    domain.Some(" Run 5km "),
		Priority: domain.Some("high"),
		DueDate:  domain.Some("2024-06-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Run 5km", updated.Title)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2024-06-20", *updated.DueDate)

	// absent fields stay, null clears
	updated, err = s.Update(ctx, g.ID, domain.UpdateGoalInput{DueDate: domain.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "Run 5km", updated.Title)
	assert.Equal(t, fixedNow, updated.CreatedAt)

	_, err = s.Update(ctx, 99, domain.UpdateGoalInput{})
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}

func TestToggleAndArchive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &memoryPersister{})
	g := create(t, s, "Run")

	toggled, err := s.ToggleCompleted(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = s.ToggleCompleted(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	archived, err := s.SetArchived(ctx, g.ID, nil)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	archived, err = s.SetArchived(ctx, g.ID, nil)
	require.NoError(t, err)
	assert.False(t, archived.Archived)

	value := true
	archived, err = s.SetArchived(ctx, g.ID, &value)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	archived, err = s.SetArchived(ctx, g.ID, &value)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	_, err = s.ToggleCompleted(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	_, err = s.SetArchived(ctx, 42, nil)
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}

func TestToggleChangesOnlyCompleted(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &memoryPersister{})
	due := "2024-06-20"
	original, err := s.Create(ctx, store.NewGoal{Title: "Read", Priority: domain.PriorityHigh, DueDate: &due})
	require.NoError(t, err)
	original, err = s.SetArchived(ctx, original.ID, nil)
	require.NoError(t, err)

	once, err := s.ToggleCompleted(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, !original.Completed, once.Completed)

	expected := *original
	expected.Completed = once.Completed
	assert.Equal(t, expected, *once)
	assert.Equal(t, original.CreatedAt, once.CreatedAt)
	require.NotNil(t, once.DueDate)
	assert.Equal(t, due, *once.DueDate)

	twice, err := s.ToggleCompleted(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, *original, *twice)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	p := &memoryPersister{}
	s := newStore(t, p)
	g := create(t, s, "Run")

	require.NoError(t, s.Delete(ctx, g.ID))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, p.last())

	var nf *domain.NotFoundError
	require.ErrorAs(t, s.Delete(ctx, g.ID), &nf)
	assert.Equal(t, g.ID, nf.ID)
}

func TestCompleteAllAndClearCompleted(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &memoryPersister{})
	a := create(t, s, "a")
	create(t, s, "b")
	create(t, s, "c")

	_, err := s.ToggleCompleted(ctx, a.ID)
	require.NoError(t, err)

	updated, err := s.CompleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	updated, err = s.CompleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	deleted, err := s.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 4, s.NextID())
}

func TestDuplicateForTomorrow(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &memoryPersister{})
	src, err := s.Create(ctx, store.NewGoal{Title: "Stretch", Priority: domain.PriorityHigh})
	require.NoError(t, err)
	_, err = s.ToggleCompleted(ctx, src.ID)
	require.NoError(t, err)
	archived := true
	_, err = s.SetArchived(ctx, src.ID, &archived)
	require.NoError(t, err)

	dup, err := s.DuplicateForTomorrow(ctx, src.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, dup.ID)
	assert.Equal(t, "Stretch", dup.Title)
	assert.Equal(t, domain.PriorityHigh, dup.Priority)
	require.NotNil(t, dup.DueDate)
	assert.Equal(t, "2024-06-16", *dup.DueDate)
	assert.False(t, dup.Completed)
	assert.False(t, dup.Archived)

	_, err = s.DuplicateForTomorrow(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("merge appends and advances next id", func(t *testing.T) {
		s := newStore(t, &memoryPersister{})
		create(t, s, "existing")

		total, err := s.Import(ctx, domain.ImportMerge, func(baseID int) ([]domain.Goal, error) {
			assert.Equal(t, 2, baseID)
			return []domain.Goal{{ID: baseID, Title: "x"}, {ID: 40, Title: "y"}}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, 41, s.NextID())
	})

	t.Run("replace discards existing goals", func(t *testing.T) {
		s := newStore(t, &memoryPersister{})
		create(t, s, "a")
		create(t, s, "b")

		total, err := s.Import(ctx, domain.ImportReplace, func(baseID int) ([]domain.Goal, error) {
			return []domain.Goal{{ID: 7, Title: "only"}}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, 8, s.NextID())
		assert.Equal(t, "only", s.Snapshot()[0].Title)
	})

	t.Run("build failure changes nothing", func(t *testing.T) {
		p := &memoryPersister{}
		s := newStore(t, p)
		create(t, s, "a")
		saves := len(p.saved)

		_, err := s.Import(ctx, domain.ImportReplace, func(baseID int) ([]domain.Goal, error) {
			return nil, &domain.ImportError{Index: 2, Message: "title is required"}
		})
		require.Error(t, err)
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, 2, s.NextID())
		assert.Len(t, p.saved, saves)
	})
}

func TestPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	p := &memoryPersister{}
	s := newStore(t, p)
	g := create(t, s, "a")

	p.saveErr = errors.New("disk full")

	_, err := s.ToggleCompleted(ctx, g.ID)
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save after toggle", perr.Op)

	// the in-memory change is kept
	assert.True(t, s.Snapshot()[0].Completed)

	_, err = s.Create(ctx, store.NewGoal{Title: "b", Priority: domain.PriorityLow})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, s.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newStore(t, &memoryPersister{})
	create(t, s, "a")

	snap := s.Snapshot()
	snap[0].Title = "changed"

	assert.Equal(t, "a", s.Snapshot()[0].Title)
}

func TestConcurrentCreatesGetUniqueIDs(t *testing.T) {
	s := newStore(t, &memoryPersister{})

	var wg sync.WaitGroup
	seen := make(chan int, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := s.Create(context.Background(), store.NewGoal{Title: "g", Priority: domain.PriorityLow})
			if assert.NoError(t, err) {
				seen <- g.ID
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int]bool{}
	for id := range seen {
		unique[id] = true
	}
	assert.Len(t, unique, 50)
	assert.Equal(t, 51, s.NextID())
}
