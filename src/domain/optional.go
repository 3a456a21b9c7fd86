package domain

import (
	"bytes"
	"encoding/json"
)

// Optional carries a JSON field that may be absent, null, or a value.
// A value that does not decode into T is recorded as malformed instead of
// failing the whole body, so validation can report the field by name.
type Optional[T any] struct {
	Set       bool
	Null      bool
	Value     T
	malformed bool
}

// Some returns an Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional explicitly set to null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Malformed reports whether the field was present with a value of the wrong type
func (o Optional[T]) Malformed() bool {
	return o.malformed
}

// HasValue reports whether the field carries a usable value
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null && !o.malformed
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		o.malformed = true
		return nil
	}
	o.Value = v
	return nil
}

// MarshalJSON implements json.Marshaler
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null || o.malformed {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// CreateGoalInput is the payload for creating a goal
type CreateGoalInput struct {
	Title    Optional[string]
	Priority Optional[string]
	DueDate  Optional[string]
}

// UpdateGoalInput is the payload for a partial update
type UpdateGoalInput struct {
	Title    Optional[string]
	Priority Optional[string]
	DueDate  Optional[string]
	Archived Optional[bool]
}

// ArchiveGoalInput sets the archived flag; an absent value flips it
type ArchiveGoalInput struct {
	Archived Optional[bool]
}
