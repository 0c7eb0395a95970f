package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// CardReviewStore defines the interface for the review audit trail.
// Reviews are append-only: there is no update method, and deletion only
// happens as part of deleting the owning session.
type CardReviewStore interface {
	// Create appends a review record.
	// Returns ErrInvalidEntity if the card or session reference is invalid.
	Create(ctx context.Context, review *domain.CardReview) error

	// ListByCard returns all reviews of a card, oldest first.
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.CardReview, error)

	// StatsByCard aggregates the reviews of a card.
	StatsByCard(ctx context.Context, cardID uuid.UUID) (domain.CardReviewStats, error)

	// DeleteBySession removes every review recorded in a session and
	// returns how many were removed.
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
