// Package query filters, sorts, paginates and summarizes goal snapshots.
// Every function is pure: inputs are never modified.
package query

import (
	"slices"
	"strings"

	"goal-app/src/domain"

	"golang.org/x/text/cases"
)

// Run applies filter, sort and pagination to a snapshot
func Run(snapshot []domain.Goal, q domain.GoalQuery, today string) domain.GoalPage {
	filtered := Filter(snapshot, q, today)
	sorted := Sort(filtered, q.SortBy, q.Order)
	return Paginate(sorted, q.Page, q.PageSize)
}

// Filter keeps the goals visible under q. Archived goals only appear with
// status=archived or includeArchived=true.
func Filter(goals []domain.Goal, q domain.GoalQuery, today string) []domain.Goal {
	var needle string
	if q.Search != "" {
		needle = fold(q.Search)
	}

	result := make([]domain.Goal, 0, len(goals))
	for i := range goals {
		g := &goals[i]
		if !archiveVisible(g, q) {
			continue
		}
		if !matchesStatus(g, q.Status, today) {
			continue
		}
		if q.Priority != "" && g.Priority != q.Priority {
			continue
		}
		if needle != "" && !strings.Contains(fold(g.Title), needle) {
			continue
		}
		result = append(result, *g)
	}
	return result
}

func archiveVisible(g *domain.Goal, q domain.GoalQuery) bool {
	if q.Status == domain.StatusArchived {
		return g.Archived
	}
	return !g.Archived || q.IncludeArchived
}

func matchesStatus(g *domain.Goal, status domain.StatusFilter, today string) bool {
	switch status {
	case domain.StatusActive:
		return !g.Completed
	case domain.StatusCompleted:
		return g.Completed
	case domain.StatusOverdue:
		return g.IsOverdue(today)
	default:
		return true
	}
}

// fold applies Unicode case folding for case-insensitive matching
func fold(s string) string {
	return cases.Fold().String(s)
}

// Sort returns a stably sorted copy of goals. Equal keys keep input order.
func Sort(goals []domain.Goal, by domain.SortField, order domain.SortOrder) []domain.Goal {
	sorted := slices.Clone(goals)
	cmp := comparator(by)
	if order == domain.OrderAsc {
		slices.SortStableFunc(sorted, cmp)
	} else {
		slices.SortStableFunc(sorted, func(a, b domain.Goal) int { return cmp(b, a) })
	}
	return sorted
}

func comparator(by domain.SortField) func(a, b domain.Goal) int {
	switch by {
	case domain.SortByPriority:
		return func(a, b domain.Goal) int {
			return a.Priority.Rank() - b.Priority.Rank()
		}
	case domain.SortByDueDate:
		return compareDueDate
	default:
		return func(a, b domain.Goal) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
}

// compareDueDate treats a missing due date as later than any real date
func compareDueDate(a, b domain.Goal) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return strings.Compare(*a.DueDate, *b.DueDate)
	}
}

// Paginate slices out one page, clamping page into [1, totalPages]
func Paginate(goals []domain.Goal, page, pageSize int) domain.GoalPage {
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	total := len(goals)
	totalPages := max(1, (total+pageSize-1)/pageSize)
	page = min(max(page, 1), totalPages)

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	items := make([]domain.Goal, end-start)
	copy(items, goals[start:end])

	return domain.GoalPage{
		Items: items,
		Meta: domain.PageMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}
}
