package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
)

// MockDeckService implements service.DeckService for testing
type MockDeckService struct {
	CreateDeckFn func(ctx context.Context, asUser uuid.UUID, name, description string) (*domain.Deck, error)
	GetDeckFn    func(ctx context.Context, asUser, deckID uuid.UUID) (*domain.Deck, error)
	CreateCardFn func(
		ctx context.Context,
		asUser, deckID uuid.UUID,
		front, back, notes string,
	) (*domain.Card, error)
	GetCardFn func(ctx context.Context, asUser, cardID uuid.UUID) (*domain.Card, error)

	// Default response values
	Deck *domain.Deck
	Card *domain.Card
	Err  error
}

var _ service.DeckService = (*MockDeckService)(nil)

// CreateDeck implements the service.DeckService interface
func (m *MockDeckService) CreateDeck(
	ctx context.Context,
	asUser uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	if m.CreateDeckFn != nil {
		return m.CreateDeckFn(ctx, asUser, name, description)
	}
	return m.Deck, m.Err
}

// GetDeck implements the service.DeckService interface
func (m *MockDeckService) GetDeck(ctx context.Context, asUser, deckID uuid.UUID) (*domain.Deck, error) {
	if m.GetDeckFn != nil {
		return m.GetDeckFn(ctx, asUser, deckID)
	}
	return m.Deck, m.Err
}

// CreateCard implements the service.DeckService interface
func (m *MockDeckService) CreateCard(
	ctx context.Context,
	asUser, deckID uuid.UUID,
	front, back, notes string,
) (*domain.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, asUser, deckID, front, back, notes)
	}
	return m.Card, m.Err
}

// GetCard implements the service.DeckService interface
func (m *MockDeckService) GetCard(ctx context.Context, asUser, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, asUser, cardID)
	}
	return m.Card, m.Err
}
