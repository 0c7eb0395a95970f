package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
)

// CardReviewStore implements store.CardReviewStore in memory.
type CardReviewStore struct {
	view view
}

// Ensure CardReviewStore implements store.CardReviewStore interface
var _ store.CardReviewStore = (*CardReviewStore)(nil)

// Create implements store.CardReviewStore.Create
func (s *CardReviewStore) Create(ctx context.Context, review *domain.CardReview) error {
	if err := review.Validate(); err != nil {
		return err
	}
	return s.view.write(func(st *state) error {
		if _, ok := st.cards[review.CardID]; !ok {
			return fmt.Errorf("%w: card with ID %s not found", store.ErrInvalidEntity, review.CardID)
		}
		if _, ok := st.sessions[review.StudySessionID]; !ok {
			return fmt.Errorf("%w: study session with ID %s not found",
				store.ErrInvalidEntity, review.StudySessionID)
		}
		st.reviews = append(st.reviews, *review)
		return nil
	})
}

// ListByCard implements store.CardReviewStore.ListByCard
func (s *CardReviewStore) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.CardReview, error) {
	out := []*domain.CardReview{}
	err := s.view.read(func(st *state) error {
		for _, r := range st.reviews {
			if r.CardID == cardID {
				r := r
				out = append(out, &r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StatsByCard implements store.CardReviewStore.StatsByCard
func (s *CardReviewStore) StatsByCard(ctx context.Context, cardID uuid.UUID) (domain.CardReviewStats, error) {
	reviews, err := s.ListByCard(ctx, cardID)
	if err != nil {
		return domain.CardReviewStats{}, err
	}
	return domain.SummarizeReviews(reviews), nil
}

// DeleteBySession implements store.CardReviewStore.DeleteBySession
func (s *CardReviewStore) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var removed int64
	err := s.view.write(func(st *state) error {
		before := len(st.reviews)
		st.reviews = removeSessionReviews(st.reviews, sessionID)
		removed = int64(before - len(st.reviews))
		return nil
	})
	return removed, err
}

func removeSessionReviews(reviews []domain.CardReview, sessionID uuid.UUID) []domain.CardReview {
	kept := reviews[:0:0]
	for _, r := range reviews {
		if r.StudySessionID != sessionID {
			kept = append(kept, r)
		}
	}
	return kept
}
