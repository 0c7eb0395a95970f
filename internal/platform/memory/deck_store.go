package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
)

// DeckStore implements store.DeckStore in memory.
type DeckStore struct {
	view view
}

// Ensure DeckStore implements store.DeckStore interface
var _ store.DeckStore = (*DeckStore)(nil)

// Create implements store.DeckStore.Create
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}
	return s.view.write(func(st *state) error {
		if _, ok := st.decks[deck.ID]; ok {
			return store.ErrDuplicate
		}
		st.decks[deck.ID] = copyDeck(*deck)
		return nil
	})
}

// GetByID implements store.DeckStore.GetByID
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	var out domain.Deck
	err := s.view.read(func(st *state) error {
		d, ok := st.decks[id]
		if !ok {
			return store.ErrDeckNotFound
		}
		out = copyDeck(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TouchLastStudied implements store.DeckStore.TouchLastStudied
func (s *DeckStore) TouchLastStudied(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.view.write(func(st *state) error {
		d, ok := st.decks[id]
		if !ok {
			return store.ErrDeckNotFound
		}
		at := at.UTC()
		d.LastStudiedAt = &at
		d.UpdatedAt = at
		st.decks[id] = d
		return nil
	})
}

func copyDeck(d domain.Deck) domain.Deck {
	d.LastStudiedAt = copyTime(d.LastStudiedAt)
	return d
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
