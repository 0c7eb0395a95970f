// Package study_session implements the study session lifecycle: starting a
// session on a deck, completing it with the caller's counters, and the
// related lookups and activity stats.
package study_session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
)

// StudySessionService manages study sessions.
type StudySessionService interface {
	// StartSession opens a session on deckID for asUser and marks the deck
	// as studied now. Both writes happen in one transaction.
	//
	// Returns ErrDeckNotFound or ErrDeckNotOwned.
	StartSession(ctx context.Context, asUser uuid.UUID, deckID uuid.UUID) (*domain.StudySession, error)

	// CompleteSession overwrites the session's counters with the supplied
	// values and stamps the completion time.
	//
	// Returns:
	//   - domain.ErrValidation when a counter is negative, before any store access
	//   - ErrSessionNotFound or ErrSessionNotOwned
	//   - ErrSessionAlreadyCompleted when the session is already completed and
	//     recompletion is not allowed
	CompleteSession(
		ctx context.Context,
		asUser uuid.UUID,
		token string,
		counters domain.SessionCounters,
	) (*domain.StudySession, error)

	// GetSession returns the session identified by token.
	// Returns ErrSessionNotFound or ErrSessionNotOwned.
	GetSession(ctx context.Context, asUser uuid.UUID, token string) (*domain.StudySession, error)

	// DeleteSession removes the session and every review recorded in it.
	// Returns ErrSessionNotFound or ErrSessionNotOwned.
	DeleteSession(ctx context.Context, asUser uuid.UUID, token string) error

	// StudyActivity counts asUser's sessions completed in the last days days.
	// days <= 0 selects the configured default; larger values are capped.
	StudyActivity(ctx context.Context, asUser uuid.UUID, days int, now time.Time) (*ActivityStats, error)
}

// ActivityStats is the result of StudyActivity.
type ActivityStats struct {
	PeriodDays        int       `json:"period_days"`
	CompletedSessions int       `json:"completed_sessions"`
	Since             time.Time `json:"since"`
}

// Bounds for the StudyActivity window, in days.
const (
	DefaultActivityDays = 7
	MaxActivityDays     = 365
)

// Common error types for StudySessionService
var (
	// ErrSessionNotFound indicates no session has the given token.
	ErrSessionNotFound = fmt.Errorf("%w: study session not found", domain.ErrNotFound)

	// ErrSessionNotOwned indicates the session belongs to another user.
	ErrSessionNotOwned = fmt.Errorf("%w: study session is owned by another user", domain.ErrForbidden)

	// ErrSessionAlreadyCompleted indicates a repeated completion.
	ErrSessionAlreadyCompleted = domain.ErrSessionAlreadyCompleted

	// ErrDeckNotFound indicates the deck does not exist.
	ErrDeckNotFound = service.ErrDeckNotFound

	// ErrDeckNotOwned indicates the deck belongs to another user.
	ErrDeckNotOwned = service.ErrDeckNotOwned
)

// ServiceError wraps unexpected errors from the study session service.
type ServiceError = service.ServiceError

// NewStartSessionError returns a new ServiceError for the start_session operation.
func NewStartSessionError(message string, err error) *ServiceError {
	return service.NewServiceError("start_session", message, err)
}

// NewCompleteSessionError returns a new ServiceError for the complete_session operation.
func NewCompleteSessionError(message string, err error) *ServiceError {
	return service.NewServiceError("complete_session", message, err)
}

// NewGetSessionError returns a new ServiceError for the get_session operation.
func NewGetSessionError(message string, err error) *ServiceError {
	return service.NewServiceError("get_session", message, err)
}

// NewDeleteSessionError returns a new ServiceError for the delete_session operation.
func NewDeleteSessionError(message string, err error) *ServiceError {
	return service.NewServiceError("delete_session", message, err)
}

// NewStudyActivityError returns a new ServiceError for the study_activity operation.
func NewStudyActivityError(message string, err error) *ServiceError {
	return service.NewServiceError("study_activity", message, err)
}
