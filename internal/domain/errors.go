// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the core operations. Specific errors in the service
// packages wrap one of these so callers can classify failures with errors.Is.
var (
	// ErrNotFound is returned when a session, card or deck does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a resource exists but is owned by someone else.
	ErrForbidden = errors.New("access denied")

	// ErrInvalidArgument is returned when a caller supplies a value outside its contract,
	// such as a grade outside 0..5 or a negative duration.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict is returned when the request is well-formed but contradicts current
	// state, for example reviewing a card from another deck.
	ErrConflict = errors.New("conflict")
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = fmt.Errorf("%w: validation failed", ErrInvalidArgument)

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrInvalidArgument)

	// ErrUnauthorized is returned when no authenticated identity is available.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns ErrValidation together with the specific cause, so both
// errors.Is(err, ErrValidation) and errors.Is(err, cause) hold.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil the error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
