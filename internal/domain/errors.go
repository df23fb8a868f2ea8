package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned (wrapped) whenever a simulation input falls outside its domain.
var ErrInvalidInput = errors.New("invalid domain input")

// ValidationError names the offending field. It unwraps to ErrInvalidInput so callers
// can test with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
