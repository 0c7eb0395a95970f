package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
)

// AuthorizeDeck loads deckID and checks that asUser owns it.
// Returns ErrDeckNotFound or ErrDeckNotOwned for the expected failures.
func AuthorizeDeck(
	ctx context.Context,
	decks store.DeckStore,
	asUser uuid.UUID,
	deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if !deck.IsOwnedBy(asUser) {
		return nil, ErrDeckNotOwned
	}
	return deck, nil
}

// AuthorizeCard loads cardID and checks that asUser owns the card's deck.
// Returns ErrCardNotFound or ErrCardNotOwned for the expected failures.
func AuthorizeCard(
	ctx context.Context,
	stores store.Stores,
	asUser uuid.UUID,
	cardID uuid.UUID,
) (*domain.Card, *domain.Deck, error) {
	card, err := stores.Cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrCardNotFound
		}
		return nil, nil, fmt.Errorf("failed to load card: %w", err)
	}

	deck, err := stores.Decks.GetByID(ctx, card.DeckID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// A card whose deck vanished is reported as missing itself.
			return nil, nil, ErrCardNotFound
		}
		return nil, nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if !deck.IsOwnedBy(asUser) {
		return nil, nil, ErrCardNotOwned
	}
	return card, deck, nil
}

// IsExpected reports whether err is one of the domain error kinds, which
// services pass through unchanged instead of wrapping in ServiceError.
func IsExpected(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrInvalidArgument) ||
		errors.Is(err, domain.ErrConflict)
}
