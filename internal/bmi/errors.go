// ABOUTME: Validation error taxonomy for the BMI calculator.
// ABOUTME: ErrOutOfRange wraps ErrInvalidInput so both checks succeed with errors.Is.
package bmi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports an unparsable or missing input field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange reports a parsed value that violates a positivity constraint.
	ErrOutOfRange = fmt.Errorf("%w: out of range", ErrInvalidInput)
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string) error {
	return &ValidationError{Field: field, Err: ErrInvalidInput}
}

func outOfRange(field string) error {
	return &ValidationError{Field: field, Err: ErrOutOfRange}
}
