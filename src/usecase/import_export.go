package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"goal-app/src/domain"
	"goal-app/src/store"
	"goal-app/src/validator"

	"github.com/araddon/dateparse"
	"github.com/sirupsen/logrus"
)

// ImportExportService dumps the collection and admits external batches
type ImportExportService struct {
	store     *store.GoalStore
	validator *validator.GoalValidator
	logger    *logrus.Logger
}

// NewImportExportService creates a new import/export service
func NewImportExportService(s *store.GoalStore, v *validator.GoalValidator, logger *logrus.Logger) *ImportExportService {
	return &ImportExportService{
		store:     s,
		validator: v,
		logger:    logger,
	}
}

// Export returns every goal, archived and completed included, in store order
func (s *ImportExportService) Export(ctx context.Context) (*domain.GoalExport, error) {
	return &domain.GoalExport{
		ExportedAt: s.store.Now(),
		Items:      s.store.Snapshot(),
	}, nil
}

// Import normalizes items and installs them with the given mode. If any
// item is rejected nothing changes and the first bad index is reported.
func (s *ImportExportService) Import(ctx context.Context, rawMode string, items []map[string]any) (*domain.ImportResult, error) {
	mode, err := s.validator.ParseImportMode(rawMode)
	if err != nil {
		return nil, err
	}

	now := s.store.Now()
	total, err := s.store.Import(ctx, mode, func(baseID int) ([]domain.Goal, error) {
		return NormalizeImport(items, baseID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"mode":     mode,
		"imported": len(items),
		"total":    total,
	}).Info("goals imported")

	return &domain.ImportResult{
		Imported: len(items),
		Total:    total,
		Mode:     mode,
	}, nil
}

// NormalizeImport converts raw candidates into goals. Items without a usable
// id get baseID+index; items without a parseable createdAt get now.
func NormalizeImport(items []map[string]any, baseID int, now time.Time) ([]domain.Goal, error) {
	goals := make([]domain.Goal, 0, len(items))
	for i, item := range items {
		g, err := normalizeItem(item, baseID+i, now)
		if err != nil {
			return nil, &domain.ImportError{Index: i, Message: err.Error()}
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func normalizeItem(item map[string]any, fallbackID int, now time.Time) (domain.Goal, error) {
	title, _ := item["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Goal{}, domain.NewValidationError("title", "required", "title is required")
	}

	g := domain.Goal{
		ID:        fallbackID,
		Title:     title,
		Priority:  domain.PriorityMedium,
		Completed: truthy(item["completed"]),
		Archived:  truthy(item["archived"]),
		CreatedAt: now,
	}

	if p, ok := item["priority"].(string); ok {
		g.Priority = domain.NormalizePriority(p)
	}
	if due, ok := item["dueDate"].(string); ok && domain.IsValidDueDate(due) {
		g.DueDate = &due
	}
	if id, ok := positiveWholeNumber(item["id"]); ok {
		g.ID = id
	}
	if raw, ok := item["createdAt"].(string); ok && raw != "" {
		if t, err := dateparse.ParseAny(raw); err == nil {
			g.CreatedAt = t
		}
	}

	return g, nil
}

// truthy follows loose JSON truthiness: false, 0, "", null and absent are false
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func positiveWholeNumber(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 || x != math.Trunc(x) || x > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case int:
		return x, x > 0
	default:
		return 0, false
	}
}
