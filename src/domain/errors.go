package domain

import (
	"errors"
	"fmt"
)

// ErrGoalNotFound is matched by every NotFoundError
var ErrGoalNotFound = errors.New("goal not found")

// ValidationError reports the first violated rule of a query or payload
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError
func NewValidationError(field, tag, message string) error {
	return &ValidationError{Field: field, Tag: tag, Message: message}
}

// NotFoundError reports an operation on a nonexistent id
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("goal %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrGoalNotFound
}

// ImportError reports the first import candidate that failed normalization
type ImportError struct {
	Index   int
	Message string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("item at index %d: %s", e.Index, e.Message)
}

// PersistenceError wraps a durable-storage failure
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
