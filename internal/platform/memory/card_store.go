package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
)

// CardStore implements store.CardStore in memory.
type CardStore struct {
	view view
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	return s.view.write(func(st *state) error {
		if _, ok := st.decks[card.DeckID]; !ok {
			return fmt.Errorf("%w: deck with ID %s not found", store.ErrInvalidEntity, card.DeckID)
		}
		if _, ok := st.cards[card.ID]; ok {
			return store.ErrDuplicate
		}
		st.cards[card.ID] = *card
		return nil
	})
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var out domain.Card
	err := s.view.read(func(st *state) error {
		c, ok := st.cards[id]
		if !ok {
			return store.ErrCardNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForUpdate implements store.CardStore.GetForUpdate.
// Inside InTx the whole database is already held by the transaction.
func (s *CardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.GetByID(ctx, id)
}

// UpdateSchedule implements store.CardStore.UpdateSchedule
func (s *CardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	return s.view.write(func(st *state) error {
		c, ok := st.cards[card.ID]
		if !ok {
			return store.ErrCardNotFound
		}
		c.Difficulty = card.Difficulty
		c.NextReviewDate = card.NextReviewDate
		c.ReviewCount = card.ReviewCount
		c.UpdatedAt = card.UpdatedAt
		st.cards[card.ID] = c
		return nil
	})
}

// ListDue implements store.CardStore.ListDue
func (s *CardStore) ListDue(
	ctx context.Context,
	deckID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	var due []*domain.Card
	err := s.view.read(func(st *state) error {
		due = dueCards(st, deckID, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// CountDue implements store.CardStore.CountDue
func (s *CardStore) CountDue(ctx context.Context, deckID uuid.UUID, now time.Time) (int, error) {
	var n int
	err := s.view.read(func(st *state) error {
		n = len(dueCards(st, deckID, now))
		return nil
	})
	return n, err
}

func dueCards(st *state, deckID uuid.UUID, now time.Time) []*domain.Card {
	due := []*domain.Card{}
	for _, c := range st.cards {
		if c.DeckID == deckID && c.IsDue(now) {
			c := c
			due = append(due, &c)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewDate.Equal(due[j].NextReviewDate) {
			return due[i].NextReviewDate.Before(due[j].NextReviewDate)
		}
		return due[i].ID.String() < due[j].ID.String()
	})
	return due
}
