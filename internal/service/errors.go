package service

import (
	"fmt"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// Each wraps one of the domain error kinds so callers, including the API layer,
// can classify with errors.Is(err, domain.ErrNotFound) and friends.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps error kinds to HTTP status codes
var (
	// ErrDeckNotFound indicates the deck does not exist.
	ErrDeckNotFound = fmt.Errorf("%w: deck not found", domain.ErrNotFound)

	// ErrDeckNotOwned indicates the deck belongs to another user.
	ErrDeckNotOwned = fmt.Errorf("%w: deck is owned by another user", domain.ErrForbidden)

	// ErrCardNotFound indicates the card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card not found", domain.ErrNotFound)

	// ErrCardNotOwned indicates the card's deck belongs to another user.
	ErrCardNotOwned = fmt.Errorf("%w: card is owned by another user", domain.ErrForbidden)
)

// ServiceError wraps unexpected failures with the operation that hit them.
// Expected conditions are reported with the sentinels above instead.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_deck", "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
