package handler

import (
	"goal-app/src/domain"
)

// CreateGoalRequestDTO represents HTTP request for creating a goal
type CreateGoalRequestDTO struct {
	Title    domain.Optional[string] `json:"title"`
	Priority domain.Optional[string] `json:"priority"`
	DueDate  domain.Optional[string] `json:"dueDate"`
}

// UpdateGoalRequestDTO represents HTTP request for a partial goal update.
// Absent fields are left unchanged; a null dueDate clears it.
type UpdateGoalRequestDTO struct {
	Title    domain.Optional[string] `json:"title"`
	Priority domain.Optional[string] `json:"priority"`
	DueDate  domain.Optional[string] `json:"dueDate"`
	Archived domain.Optional[bool]   `json:"archived"`
}

// ArchiveGoalRequestDTO represents HTTP request for archiving a goal
type ArchiveGoalRequestDTO struct {
	Archived domain.Optional[bool] `json:"archived"`
}

// ImportGoalsRequestDTO represents HTTP request for a bulk import
type ImportGoalsRequestDTO struct {
	Mode  string `json:"mode"`
	Items []any  `json:"items"`
}

// GoalResponseDTO wraps a single goal
type GoalResponseDTO struct {
	Item *domain.Goal `json:"item"`
}

// UpdatedResponseDTO reports how many goals a bulk action changed
type UpdatedResponseDTO struct {
	Updated int `json:"updated"`
}

// DeletedResponseDTO reports how many goals a bulk action removed
type DeletedResponseDTO struct {
	Deleted int `json:"deleted"`
}

// HealthResponseDTO represents the health check body
type HealthResponseDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Goals     int    `json:"goals"`
	Storage   string `json:"storage"`
}

// ErrorResponseDTO represents HTTP error response
type ErrorResponseDTO struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

func (r CreateGoalRequestDTO) toInput() domain.CreateGoalInput {
	return domain.CreateGoalInput{
		Title:    r.Title,
		Priority: r.Priority,
		DueDate:  r.DueDate,
	}
}

func (r UpdateGoalRequestDTO) toInput() domain.UpdateGoalInput {
	return domain.UpdateGoalInput{
		Title:    r.Title,
		Priority: r.Priority,
		DueDate:  r.DueDate,
		Archived: r.Archived,
	}
}
