package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/service/auth"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
	"github.com/phrazzld/scry-decks/internal/service/study_session"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error kind. Service sentinels wrap a domain kind, so a single
// errors.Is check per kind covers every specific error.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, domain.ErrUnauthorized):
		return "User ID not found or invalid"

	// Ownership errors
	case errors.Is(err, service.ErrDeckNotOwned):
		return "You do not own this deck"
	case errors.Is(err, service.ErrCardNotOwned):
		return "You do not own this card"
	case errors.Is(err, study_session.ErrSessionNotOwned),
		errors.Is(err, card_review.ErrSessionNotOwned):
		return "You do not own this study session"

	// Not found errors
	case errors.Is(err, service.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, service.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, study_session.ErrSessionNotFound),
		errors.Is(err, card_review.ErrSessionNotFound):
		return "Study session not found"

	// Conflict errors
	case errors.Is(err, card_review.ErrCardDeckMismatch):
		return "Card does not belong to this study session's deck"
	case errors.Is(err, study_session.ErrSessionAlreadyCompleted):
		return "Study session is already completed"

	// Bad request errors
	case errors.Is(err, card_review.ErrInvalidResult):
		return "Result must be between 0 and 5"
	case errors.Is(err, card_review.ErrNegativeTimeSpent):
		return "Time spent cannot be negative"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return "Invalid request: " + validationErr.Error()
	}

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "Invalid request"
	case errors.Is(err, domain.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, domain.ErrForbidden):
		return "Access denied"
	case errors.Is(err, domain.ErrConflict):
		return "Request conflicts with current state"
	}

	return "An unexpected error occurred"
}

// HandleAPIError writes the status and sanitized message for err and logs the
// full error. fallbackMsg, when set, replaces the generic message of
// unexpected (500) errors so clients learn which operation failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMsg != "" {
		message = fallbackMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message naming the first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", toSnakeCase(fe.Field()), getValidationTagMessage(fe.Tag()))
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return "Invalid request: " + validationErr.Error()
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "value too small"
	case "max", "lte":
		return "value too large"
	case "uuid":
		return "invalid UUID"
	default:
		return "validation failed"
	}
}

// toSnakeCase converts a Go field name such as TimeSpentSeconds to the JSON
// name clients sent (time_spent_seconds).
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, c := range s {
		if c >= 'A' && c <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(c + ('a' - 'A'))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
