package domain

import "time"

// StatusFilter is a derived view over the completed/archived/dueDate fields
type StatusFilter string

const (
	StatusAny       StatusFilter = ""
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
	StatusOverdue   StatusFilter = "overdue"
	StatusArchived  StatusFilter = "archived"
)

// IsValid validates if the status filter is valid
func (s StatusFilter) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOverdue, StatusArchived:
		return true
	default:
		return false
	}
}

// SortField names the key goals are ordered by
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByDueDate   SortField = "dueDate"
	SortByPriority  SortField = "priority"
)

// SortOrder is the sort direction
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// GoalQuery is the typed form of the list/stats query string.
// An empty Priority means no priority filter.
type GoalQuery struct {
	Status          StatusFilter
	Priority        Priority
	Search          string
	SortBy          SortField
	Order           SortOrder
	Page            int
	PageSize        int
	IncludeArchived bool
}

// DefaultGoalQuery returns the query used when no parameters are supplied
func DefaultGoalQuery() GoalQuery {
	return GoalQuery{
		SortBy:   SortByCreatedAt,
		Order:    OrderDesc,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// PageMeta describes a page of results
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// GoalPage is one page of a filtered, sorted goal list
type GoalPage struct {
	Items []Goal   `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// PriorityCounts counts goals per known priority
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// GoalStats aggregates a filtered goal view
type GoalStats struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Completed  int            `json:"completed"`
	Overdue    int            `json:"overdue"`
	ByPriority PriorityCounts `json:"byPriority"`
}

// ImportMode selects how an imported batch combines with existing goals
type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

// GoalExport is the full-collection dump
type GoalExport struct {
	ExportedAt time.Time `json:"exportedAt"`
	Items      []Goal    `json:"items"`
}

// ImportResult summarizes an accepted import
type ImportResult struct {
	Imported int        `json:"imported"`
	Total    int        `json:"total"`
	Mode     ImportMode `json:"mode"`
}
