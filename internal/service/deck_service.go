package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// DeckService provides the deck and card operations needed to feed the
// review engine. Listing and editing are intentionally absent.
type DeckService interface {
	// CreateDeck creates an empty deck owned by asUser.
	CreateDeck(ctx context.Context, asUser uuid.UUID, name, description string) (*domain.Deck, error)

	// GetDeck returns a deck owned by asUser.
	// Returns ErrDeckNotFound or ErrDeckNotOwned.
	GetDeck(ctx context.Context, asUser uuid.UUID, deckID uuid.UUID) (*domain.Deck, error)

	// CreateCard adds a card to a deck owned by asUser. The card is due immediately.
	// Returns ErrDeckNotFound or ErrDeckNotOwned.
	CreateCard(
		ctx context.Context,
		asUser uuid.UUID,
		deckID uuid.UUID,
		front, back, notes string,
	) (*domain.Card, error)

	// GetCard returns a card whose deck is owned by asUser.
	// Returns ErrCardNotFound or ErrCardNotOwned.
	GetCard(ctx context.Context, asUser uuid.UUID, cardID uuid.UUID) (*domain.Card, error)
}

// deckServiceImpl implements the DeckService interface
type deckServiceImpl struct {
	stores store.Stores
	now    func() time.Time
	logger *slog.Logger
}

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(tx store.Transactor, logger *slog.Logger) (DeckService, error) {
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		stores: tx.Stores(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With(slog.String("component", "deck_service")),
	}, nil
}

// CreateDeck implements DeckService.CreateDeck
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	asUser uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(asUser, name, description, s.now())
	if err != nil {
		log.Debug("invalid deck", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.stores.Decks.Create(ctx, deck); err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("user_id", asUser.String()))
		return nil, NewServiceError("create_deck", "failed to save deck", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", asUser.String()))
	return deck, nil
}

// GetDeck implements DeckService.GetDeck
func (s *deckServiceImpl) GetDeck(ctx context.Context, asUser uuid.UUID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := AuthorizeDeck(ctx, s.stores.Decks, asUser, deckID)
	if err != nil {
		if IsExpected(err) {
			return nil, err
		}
		return nil, NewServiceError("get_deck", "failed to retrieve deck", err)
	}
	return deck, nil
}

// CreateCard implements DeckService.CreateCard
func (s *deckServiceImpl) CreateCard(
	ctx context.Context,
	asUser uuid.UUID,
	deckID uuid.UUID,
	front, back, notes string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := AuthorizeDeck(ctx, s.stores.Decks, asUser, deckID); err != nil {
		if IsExpected(err) {
			return nil, err
		}
		return nil, NewServiceError("create_card", "failed to retrieve deck", err)
	}

	card, err := domain.NewCard(deckID, front, back, notes, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.stores.Cards.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, NewServiceError("create_card", "failed to save card", err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	return card, nil
}

// GetCard implements DeckService.GetCard
func (s *deckServiceImpl) GetCard(ctx context.Context, asUser uuid.UUID, cardID uuid.UUID) (*domain.Card, error) {
	card, _, err := AuthorizeCard(ctx, s.stores, asUser, cardID)
	if err != nil {
		if IsExpected(err) {
			return nil, err
		}
		return nil, NewServiceError("get_card", "failed to retrieve card", err)
	}
	return card, nil
}
