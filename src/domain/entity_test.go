package domain_test

import (
	"errors"
	"testing"
	"time"

	"goal-app/src/domain"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestGoal_IsOverdue(t *testing.T) {
	today := "2024-06-15"

	tests := []struct {
		name string
		goal domain.Goal
		want bool
	}{
		{"due yesterday", domain.Goal{DueDate: strPtr("2024-06-14")}, true},
		{"due today", domain.Goal{DueDate: strPtr("2024-06-15")}, false},
		{"due tomorrow", domain.Goal{DueDate: strPtr("2024-06-16")}, false},
		{"no due date", domain.Goal{}, false},
		{"completed", domain.Goal{DueDate: strPtr("2024-06-14"), Completed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.goal.IsOverdue(today))
		})
	}
}

func TestNormalizePriority(t *testing.T) {
	assert.Equal(t, domain.PriorityHigh, domain.NormalizePriority("high"))
	assert.Equal(t, domain.PriorityLow, domain.NormalizePriority("low"))
	assert.Equal(t, domain.PriorityMedium, domain.NormalizePriority("urgent"))
	assert.Equal(t, domain.PriorityMedium, domain.NormalizePriority(""))
}

func TestPriority_Rank(t *testing.T) {
	assert.Less(t, domain.PriorityLow.Rank(), domain.PriorityMedium.Rank())
	assert.Less(t, domain.PriorityMedium.Rank(), domain.PriorityHigh.Rank())
	assert.Equal(t, 0, domain.Priority("bogus").Rank())
}

func TestIsValidDueDate(t *testing.T) {
	assert.True(t, domain.IsValidDueDate("2024-06-15"))
	assert.True(t, domain.IsValidDueDate("2024-02-30"))
	assert.False(t, domain.IsValidDueDate("2024-6-15"))
	assert.False(t, domain.IsValidDueDate("15/06/2024"))
	assert.False(t, domain.IsValidDueDate("2024-06-15T00:00:00Z"))
}

func TestTodayTomorrow(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-12-31", domain.Today(now))
	assert.Equal(t, "2025-01-01", domain.Tomorrow(now))
}

func TestMaxID(t *testing.T) {
	assert.Equal(t, 0, domain.MaxID(nil))
	assert.Equal(t, 9, domain.MaxID([]domain.Goal{{ID: 3}, {ID: 9}, {ID: 4}}))
}

func TestErrors(t *testing.T) {
	var err error = &domain.NotFoundError{ID: 7}
	assert.True(t, errors.Is(err, domain.ErrGoalNotFound))
	assert.Equal(t, "goal 7 not found", err.Error())

	err = &domain.ImportError{Index: 2, Message: "title is required"}
	assert.Equal(t, "item at index 2: title is required", err.Error())

	cause := errors.New("disk full")
	err = &domain.PersistenceError{Op: "save after create", Err: cause}
	assert.ErrorIs(t, err, cause)
}
