package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// CardStore defines the interface for card data persistence.
// Version: 1.0
type CardStore interface {
	// Create saves a new card to the store.
	// Returns validation errors from the domain Card if data is invalid.
	// Returns ErrInvalidEntity if the referenced deck does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a card and locks it against concurrent
	// schedule updates until the surrounding transaction ends.
	// Outside a transaction it behaves like GetByID.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// UpdateSchedule persists the card's scheduling fields: difficulty,
	// next review date, review count and updated_at.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateSchedule(ctx context.Context, card *domain.Card) error

	// ListDue returns up to limit cards of deckID whose next review date is at
	// or before now, soonest first. Ties are broken by card ID so repeated
	// queries return the same order.
	ListDue(ctx context.Context, deckID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)

	// CountDue returns the number of cards of deckID due at now, ignoring any limit.
	CountDue(ctx context.Context, deckID uuid.UUID, now time.Time) (int, error)
}
