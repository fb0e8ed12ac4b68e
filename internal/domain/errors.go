package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an id did not resolve at the requested level.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a missing or malformed input field.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError names the level and id that failed to resolve.
type NotFoundError struct {
	Entity Level
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound is shorthand for &NotFoundError{Entity: level, ID: id}.
func NotFound(level Level, id string) error {
	return &NotFoundError{Entity: level, ID: id}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Required returns the ValidationError reported for an absent required field.
func Required(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

// IsNotFound reports whether err is, or wraps, a not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is, or wraps, a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
