package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
// Version: 1.0
type DeckStore interface {
	// Create saves a new deck to the store.
	// Returns validation errors from the domain Deck if data is invalid.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// TouchLastStudied sets the deck's last studied marker.
	// Returns ErrDeckNotFound if the deck does not exist.
	TouchLastStudied(ctx context.Context, id uuid.UUID, at time.Time) error
}
