package domain

import (
	"regexp"
	"time"
)

// DateLayout is the calendar-date format used for due dates
const DateLayout = "2006-01-02"

var dueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Goal represents a goal domain entity
type Goal struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Priority  Priority  `json:"priority"`
	DueDate   *string   `json:"dueDate"`
	Completed bool      `json:"completed"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
}

// Priority represents goal priority levels
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid validates if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities low < medium < high; unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// String returns string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// NormalizePriority returns p when it is a known priority, otherwise medium.
func NormalizePriority(p string) Priority {
	if Priority(p).IsValid() {
		return Priority(p)
	}
	return PriorityMedium
}

// IsValidDueDate reports whether s has the YYYY-MM-DD shape. Calendar
// validity is not checked, so "2024-02-30" passes.
func IsValidDueDate(s string) bool {
	return dueDatePattern.MatchString(s)
}

// IsOverdue reports whether the goal is incomplete with a due date strictly
// before today. Both dates use DateLayout, so string order is date order.
func (g *Goal) IsOverdue(today string) bool {
	if g.Completed || g.DueDate == nil {
		return false
	}
	return *g.DueDate < today
}

// Today formats the calendar date of now in DateLayout.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// Tomorrow formats the calendar date after now in DateLayout.
func Tomorrow(now time.Time) string {
	return now.AddDate(0, 0, 1).Format(DateLayout)
}

// MaxID returns the largest id in goals, or 0 for an empty collection.
func MaxID(goals []Goal) int {
	max := 0
	for _, g := range goals {
		if g.ID > max {
			max = g.ID
		}
	}
	return max
}
