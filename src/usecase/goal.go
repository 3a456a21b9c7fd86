package usecase

import (
	"context"

	"goal-app/src/domain"
	"goal-app/src/query"
	"goal-app/src/store"
	"goal-app/src/validator"

	"github.com/sirupsen/logrus"
)

// GoalUsecase defines the interface for goal business logic
type GoalUsecase interface {
	ListGoals(ctx context.Context, q domain.GoalQuery) (*domain.GoalPage, error)
	GoalStats(ctx context.Context, q domain.GoalQuery) (*domain.GoalStats, error)
	CreateGoal(ctx context.Context, in domain.CreateGoalInput) (*domain.Goal, error)
	UpdateGoal(ctx context.Context, id int, in domain.UpdateGoalInput) (*domain.Goal, error)
	ToggleGoal(ctx context.Context, id int) (*domain.Goal, error)
	ArchiveGoal(ctx context.Context, id int, in domain.ArchiveGoalInput) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, id int) error
	DuplicateForTomorrow(ctx context.Context, id int) (*domain.Goal, error)
	CompleteAll(ctx context.Context) (int, error)
	ClearCompleted(ctx context.Context) (int, error)
	ExportGoals(ctx context.Context) (*domain.GoalExport, error)
	ImportGoals(ctx context.Context, mode string, items []map[string]any) (*domain.ImportResult, error)
	CountGoals(ctx context.Context) int
}

type goalUsecase struct {
	store     *store.GoalStore
	validator *validator.GoalValidator
	transfer  *ImportExportService
}

// NewGoalUsecase creates a new goal usecase
func NewGoalUsecase(s *store.GoalStore, v *validator.GoalValidator, logger *logrus.Logger) GoalUsecase {
	return &goalUsecase{
		store:     s,
		validator: v,
		transfer:  NewImportExportService(s, v, logger),
	}
}

// ListGoals returns one page of the filtered, sorted snapshot
func (u *goalUsecase) ListGoals(ctx context.Context, q domain.GoalQuery) (*domain.GoalPage, error) {
	page := query.Run(u.store.Snapshot(), q, u.today())
	return &page, nil
}

// GoalStats summarizes the snapshot under the same filter as ListGoals
func (u *goalUsecase) GoalStats(ctx context.Context, q domain.GoalQuery) (*domain.GoalStats, error) {
	stats := query.Stats(u.store.Snapshot(), q, u.today())
	return &stats, nil
}

// CreateGoal creates a new goal
func (u *goalUsecase) CreateGoal(ctx context.Context, in domain.CreateGoalInput) (*domain.Goal, error) {
	if err := u.validator.ValidateCreate(in); err != nil {
		return nil, err
	}

	priority := domain.PriorityMedium // デフォルト値
	if in.Priority.HasValue() {
		priority = domain.NormalizePriority(in.Priority.Value)
	}

	var dueDate *string
	if in.DueDate.HasValue() {
		due := in.DueDate.Value
		dueDate = &due
	}

	goal, err := u.store.Create(ctx, store.NewGoal{
		Title:    in.Title.Value,
		Priority: priority,
		DueDate:  dueDate,
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateGoal updates the supplied fields of an existing goal
func (u *goalUsecase) UpdateGoal(ctx context.Context, id int, in domain.UpdateGoalInput) (*domain.Goal, error) {
	if err := u.validator.ValidateUpdate(in); err != nil {
		return nil, err
	}
	return u.store.Update(ctx, id, in)
}

// ToggleGoal flips the completed flag
func (u *goalUsecase) ToggleGoal(ctx context.Context, id int) (*domain.Goal, error) {
	return u.store.ToggleCompleted(ctx, id)
}

// ArchiveGoal sets the archived flag, flipping it when no value is supplied
func (u *goalUsecase) ArchiveGoal(ctx context.Context, id int, in domain.ArchiveGoalInput) (*domain.Goal, error) {
	if err := u.validator.ValidateArchive(in); err != nil {
		return nil, err
	}

	var value *bool
	if in.Archived.HasValue() {
		archived := in.Archived.Value
		value = &archived
	}
	return u.store.SetArchived(ctx, id, value)
}

// DeleteGoal deletes a goal
func (u *goalUsecase) DeleteGoal(ctx context.Context, id int) error {
	return u.store.Delete(ctx, id)
}

// DuplicateForTomorrow clones a goal with a due date of tomorrow
func (u *goalUsecase) DuplicateForTomorrow(ctx context.Context, id int) (*domain.Goal, error) {
	return u.store.DuplicateForTomorrow(ctx, id)
}

// CompleteAll marks every incomplete goal completed
func (u *goalUsecase) CompleteAll(ctx context.Context) (int, error) {
	return u.store.CompleteAll(ctx)
}

// ClearCompleted deletes every completed goal
func (u *goalUsecase) ClearCompleted(ctx context.Context) (int, error) {
	return u.store.ClearCompleted(ctx)
}

// ExportGoals dumps the full collection
func (u *goalUsecase) ExportGoals(ctx context.Context) (*domain.GoalExport, error) {
	return u.transfer.Export(ctx)
}

// ImportGoals admits an externally supplied batch
func (u *goalUsecase) ImportGoals(ctx context.Context, mode string, items []map[string]any) (*domain.ImportResult, error) {
	return u.transfer.Import(ctx, mode, items)
}

// CountGoals returns the size of the collection
func (u *goalUsecase) CountGoals(ctx context.Context) int {
	return u.store.Len()
}

func (u *goalUsecase) today() string {
	return domain.Today(u.store.Now())
}
