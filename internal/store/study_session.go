package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// StudySessionStore defines the interface for study session persistence.
type StudySessionStore interface {
	// Create saves a new session.
	// Returns ErrSessionTokenExists if the token is already in use.
	// Returns ErrInvalidEntity if the user or deck reference is invalid.
	Create(ctx context.Context, session *domain.StudySession) error

	// GetByToken retrieves a session by its opaque token.
	// Returns ErrStudySessionNotFound if no session has that token.
	GetByToken(ctx context.Context, token string) (*domain.StudySession, error)

	// GetByTokenForUpdate is GetByToken with a row lock held until the
	// surrounding transaction ends.
	GetByTokenForUpdate(ctx context.Context, token string) (*domain.StudySession, error)

	// UpdateCompletion persists the session's four counters and completed_at.
	// Returns ErrStudySessionNotFound if the session does not exist.
	UpdateCompletion(ctx context.Context, session *domain.StudySession) error

	// Delete removes the session row. Callers delete the session's reviews
	// first (see CardReviewStore.DeleteBySession).
	// Returns ErrStudySessionNotFound if the session does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountCompletedSince counts userID's sessions completed at or after since.
	CountCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}
