package card_review_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/domain/srs"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

type reviewFixture struct {
	userID  uuid.UUID
	deck    *domain.Deck
	card    *domain.Card
	session *domain.StudySession
}

func newReviewFixture(difficulty, reviewCount int) reviewFixture {
	userID := uuid.New()
	deck := &domain.Deck{ID: uuid.New(), UserID: userID, Name: "Verbs"}
	return reviewFixture{
		userID: userID,
		deck:   deck,
		card: &domain.Card{
			ID:             uuid.New(),
			DeckID:         deck.ID,
			Front:          "ser",
			Back:           "to be",
			Difficulty:     difficulty,
			ReviewCount:    reviewCount,
			NextReviewDate: fixedNow.Add(-time.Hour),
		},
		session: &domain.StudySession{
			ID:        uuid.New(),
			Token:     uuid.NewString(),
			UserID:    userID,
			DeckID:    deck.ID,
			StartedAt: fixedNow.Add(-10 * time.Minute),
		},
	}
}

func newTestService(t *testing.T, tx store.Transactor) card_review.CardReviewService {
	t.Helper()
	srsService, err := srs.NewDefaultService()
	require.NoError(t, err)
	return card_review.NewCardReviewService(tx, srsService, nil,
		card_review.WithClock(func() time.Time { return fixedNow }))
}

func TestNewCardReviewService_NilDependencies(t *testing.T) {
	srsService, err := srs.NewDefaultService()
	require.NoError(t, err)

	assert.Panics(t, func() { card_review.NewCardReviewService(nil, srsService, nil) })
	assert.Panics(t, func() { card_review.NewCardReviewService(newMockStores(), nil, nil) })
}

func TestSubmitReview_ArgumentValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   card_review.SubmitReviewInput
		wantErr error
	}{
		{
			name:    "result above range",
			input:   card_review.SubmitReviewInput{SessionToken: "t", CardID: uuid.New(), Result: 6},
			wantErr: card_review.ErrInvalidResult,
		},
		{
			name:    "result below range",
			input:   card_review.SubmitReviewInput{SessionToken: "t", CardID: uuid.New(), Result: -1},
			wantErr: card_review.ErrInvalidResult,
		},
		{
			name: "negative time spent",
			input: card_review.SubmitReviewInput{
				SessionToken: "t", CardID: uuid.New(), Result: domain.ResultNeutral, TimeSpentSeconds: -1,
			},
			wantErr: card_review.ErrNegativeTimeSpent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := newMockStores()
			svc := newTestService(t, mocks)

			review, err := svc.SubmitReview(context.Background(), uuid.New(), tt.input)
			assert.Nil(t, review)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			mocks.sessions.AssertNotCalled(t, "GetByTokenForUpdate", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitReview_Preconditions(t *testing.T) {
	t.Run("session not found", func(t *testing.T) {
		f := newReviewFixture(0, 0)
		mocks := newMockStores()
		mocks.sessions.On("GetByTokenForUpdate", mock.Anything, "missing").Return(nil, store.ErrStudySessionNotFound)

		_, err := newTestService(t, mocks).SubmitReview(context.Background(), f.userID,
			card_review.SubmitReviewInput{SessionToken: "missing", CardID: f.card.ID, Result: 3})

		assert.ErrorIs(t, err, card_review.ErrSessionNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		mocks.cards.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("session owned by another user", func(t *testing.T) {
		f := newReviewFixture(0, 0)
		mocks := newMockStores()
		mocks.sessions.On("GetByTokenForUpdate", mock.Anything, f.session.Token).Return(f.session, nil)

		_, err := newTestService(t, mocks).SubmitReview(context.Background(), uuid.New(),
			card_review.SubmitReviewInput{SessionToken: f.session.Token, CardID: f.card.ID, Result: 3})

		assert.ErrorIs(t, err, card_review.ErrSessionNotOwned)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		mocks.cards.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("card not found", func(t *testing.T) {
		f := newReviewFixture(0, 0)
		mocks := newMockStores()
		mocks.sessions.On("GetByTokenForUpdate", mock.Anything, f.session.Token).Return(f.session, nil)
		mocks.cards.On("GetForUpdate", mock.Anything, f.card.ID).Return(nil, store.ErrCardNotFound)

		_, err := newTestService(t, mocks).SubmitReview(context.Background(), f.userID,
			card_review.SubmitReviewInput{SessionToken: f.session.Token, CardID: f.card.ID, Result: 3})

		assert.ErrorIs(t, err, card_review.ErrCardNotFound)
		mocks.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("card from another deck", func(t *testing.T) {
		f := newReviewFixture(0, 0)
		f.card.DeckID = uuid.New()
		mocks := newMockStores()
		mocks.sessions.On("GetByTokenForUpdate", mock.Anything, f.session.Token).Return(f.session, nil)
		mocks.cards.On("GetForUpdate", mock.Anything, f.card.ID).Return(f.card, nil)

		_, err := newTestService(t, mocks).SubmitReview(context.Background(), f.userID,
			card_review.SubmitReviewInput{SessionToken: f.session.Token, CardID: f.card.ID, Result: 3})

		assert.ErrorIs(t, err, card_review.ErrCardDeckMismatch)
		assert.ErrorIs(t, err, domain.ErrConflict)
		mocks.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mocks.cards.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything)
	})
}

func TestSubmitReview_Transitions(t *testing.T) {
	tests := []struct {
		name           string
		difficulty     int
		reviewCount    int
		result         domain.ReviewResult
		wantDifficulty int
		wantOffset     time.Duration
	}{
		{
			name:           "incorrect answer on a hard card",
			difficulty:     3,
			reviewCount:    5,
			result:         domain.ResultIncorrect,
			wantDifficulty: 5,
			wantOffset:     720 * time.Hour,
		},
		{
			name:           "easiest answer lowers difficulty by two",
			difficulty:     3,
			reviewCount:    0,
			result:         domain.ResultEasiest,
			wantDifficulty: 1,
			wantOffset:     24 * time.Hour,
		},
		{
			name:           "neutral answer keeps a new card at zero",
			difficulty:     0,
			reviewCount:    0,
			result:         domain.ResultNeutral,
			wantDifficulty: 0,
			wantOffset:     6 * time.Hour,
		},
		{
			name:           "hardest answer clamps at five",
			difficulty:     5,
			reviewCount:    2,
			result:         domain.ResultHardest,
			wantDifficulty: 5,
			wantOffset:     720 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(tt.difficulty, tt.reviewCount)
			mocks := newMockStores()
			mocks.sessions.On("GetByTokenForUpdate", mock.Anything, f.session.Token).Return(f.session, nil)
			mocks.cards.On("GetForUpdate", mock.Anything, f.card.ID).Return(f.card, nil)
			mocks.reviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.CardReview")).Return(nil)
			mocks.cards.On("UpdateSchedule", mock.Anything, mock.MatchedBy(func(c *domain.Card) bool {
				return c.ID == f.card.ID &&
					c.Difficulty == tt.wantDifficulty &&
					c.ReviewCount == tt.reviewCount+1 &&
					c.NextReviewDate.Equal(fixedNow.Add(tt.wantOffset)) &&
					c.UpdatedAt.Equal(fixedNow)
			})).Return(nil)

			review, err := newTestService(t, mocks).SubmitReview(context.Background(), f.userID,
				card_review.SubmitReviewInput{
					SessionToken:     f.session.Token,
					CardID:           f.card.ID,
					Result:           tt.result,
					TimeSpentSeconds: 7,
				})
			require.NoError(t, err)

			assert.Equal(t, f.card.ID, review.CardID)
			assert.Equal(t, f.session.ID, review.StudySessionID)
			assert.Equal(t, tt.result, review.Result)
			assert.Equal(t, 7, review.TimeSpentSeconds)
			assert.Equal(t, tt.difficulty, review.PreviousDifficulty)
			assert.Equal(t, tt.wantDifficulty, review.NewDifficulty)
			assert.Equal(t, fixedNow.Add(tt.wantOffset), review.NextReviewDate)
			assert.Equal(t, fixedNow, review.ReviewedAt)
			mocks.AssertExpectations(t)
		})
	}
}

func TestSubmitReview_StoreFailure(t *testing.T) {
	f := newReviewFixture(1, 1)
	dbErr := errors.New("connection reset")
	mocks := newMockStores()
	mocks.sessions.On("GetByTokenForUpdate", mock.Anything, f.session.Token).Return(f.session, nil)
	mocks.cards.On("GetForUpdate", mock.Anything, f.card.ID).Return(f.card, nil)
	mocks.reviews.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	_, err := newTestService(t, mocks).SubmitReview(context.Background(), f.userID,
		card_review.SubmitReviewInput{SessionToken: f.session.Token, CardID: f.card.ID, Result: 4})

	var svcErr *card_review.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "submit_review", svcErr.Operation)
	assert.ErrorIs(t, err, dbErr)
	mocks.cards.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything)
}

func TestSubmitReview_SessionVanishesBeforeInsert(t *testing.T) {
	f := newReviewFixture(1, 1)
	mocks := newMockStores()
	mocks.sessions.On("GetByTokenForUpdate", mock.Anything, f.session.Token).Return(f.session, nil)
	mocks.cards.On("GetForUpdate", mock.Anything, f.card.ID).Return(f.card, nil)
	mocks.reviews.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: study session reference", store.ErrInvalidEntity))

	_, err := newTestService(t, mocks).SubmitReview(context.Background(), f.userID,
		card_review.SubmitReviewInput{SessionToken: f.session.Token, CardID: f.card.ID, Result: 4})

	assert.ErrorIs(t, err, card_review.ErrSessionNotFound)
	mocks.cards.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything)
}

func TestDueCards_ReadsInOneSnapshot(t *testing.T) {
	f := newReviewFixture(0, 0)
	mocks := newMockStores()
	mocks.decks.On("GetByID", mock.Anything, f.deck.ID).Return(f.deck, nil)
	mocks.cards.On("ListDue", mock.Anything, f.deck.ID, fixedNow, card_review.DefaultDueLimit).
		Return([]*domain.Card{f.card}, nil)
	mocks.cards.On("CountDue", mock.Anything, f.deck.ID, fixedNow).Return(1, nil)

	_, err := newTestService(t, mocks).DueCards(context.Background(), f.userID, f.deck.ID, fixedNow, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, mocks.readTxCalls)
	assert.Zero(t, mocks.txCalls)
	mocks.AssertExpectations(t)
}

func TestDueCards_Limits(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "zero uses default", limit: 0, wantLimit: card_review.DefaultDueLimit},
		{name: "negative uses default", limit: -3, wantLimit: card_review.DefaultDueLimit},
		{name: "within range", limit: 25, wantLimit: 25},
		{name: "above cap is clamped", limit: 500, wantLimit: card_review.MaxDueLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(0, 0)
			mocks := newMockStores()
			mocks.decks.On("GetByID", mock.Anything, f.deck.ID).Return(f.deck, nil)
			mocks.cards.On("ListDue", mock.Anything, f.deck.ID, fixedNow, tt.wantLimit).
				Return([]*domain.Card{f.card}, nil)
			mocks.cards.On("CountDue", mock.Anything, f.deck.ID, fixedNow).Return(42, nil)

			result, err := newTestService(t, mocks).DueCards(context.Background(), f.userID, f.deck.ID, fixedNow, tt.limit)
			require.NoError(t, err)
			assert.Len(t, result.Cards, 1)
			assert.Equal(t, 42, result.TotalDue)
			mocks.AssertExpectations(t)
		})
	}
}

func TestDueCards_Ownership(t *testing.T) {
	f := newReviewFixture(0, 0)

	t.Run("missing deck", func(t *testing.T) {
		mocks := newMockStores()
		mocks.decks.On("GetByID", mock.Anything, f.deck.ID).Return(nil, store.ErrDeckNotFound)

		_, err := newTestService(t, mocks).DueCards(context.Background(), f.userID, f.deck.ID, fixedNow, 0)
		assert.ErrorIs(t, err, card_review.ErrDeckNotFound)
	})

	t.Run("deck of another user", func(t *testing.T) {
		mocks := newMockStores()
		mocks.decks.On("GetByID", mock.Anything, f.deck.ID).Return(f.deck, nil)

		_, err := newTestService(t, mocks).DueCards(context.Background(), uuid.New(), f.deck.ID, fixedNow, 0)
		assert.ErrorIs(t, err, card_review.ErrDeckNotOwned)
		mocks.cards.AssertNotCalled(t, "ListDue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWithDueLimits(t *testing.T) {
	f := newReviewFixture(0, 0)
	mocks := newMockStores()
	mocks.decks.On("GetByID", mock.Anything, f.deck.ID).Return(f.deck, nil)
	mocks.cards.On("ListDue", mock.Anything, f.deck.ID, fixedNow, 5).Return([]*domain.Card{}, nil)
	mocks.cards.On("CountDue", mock.Anything, f.deck.ID, fixedNow).Return(0, nil)

	srsService, err := srs.NewDefaultService()
	require.NoError(t, err)
	svc := card_review.NewCardReviewService(mocks, srsService, nil, card_review.WithDueLimits(5, 20))

	_, err = svc.DueCards(context.Background(), f.userID, f.deck.ID, fixedNow, 0)
	require.NoError(t, err)
	mocks.AssertExpectations(t)
}

func TestCardHistory(t *testing.T) {
	f := newReviewFixture(2, 2)
	reviews := []*domain.CardReview{
		{ID: uuid.New(), CardID: f.card.ID, Result: domain.ResultIncorrect, TimeSpentSeconds: 10},
		{ID: uuid.New(), CardID: f.card.ID, Result: domain.ResultEasy, TimeSpentSeconds: 4},
	}
	stats := domain.SummarizeReviews(reviews)

	t.Run("returns reviews and stats", func(t *testing.T) {
		mocks := newMockStores()
		mocks.cards.On("GetByID", mock.Anything, f.card.ID).Return(f.card, nil)
		mocks.decks.On("GetByID", mock.Anything, f.deck.ID).Return(f.deck, nil)
		mocks.reviews.On("ListByCard", mock.Anything, f.card.ID).Return(reviews, nil)
		mocks.reviews.On("StatsByCard", mock.Anything, f.card.ID).Return(stats, nil)

		history, err := newTestService(t, mocks).CardHistory(context.Background(), f.userID, f.card.ID)
		require.NoError(t, err)
		assert.Equal(t, f.card.ID, history.CardID)
		assert.Len(t, history.Reviews, 2)
		assert.Equal(t, 2, history.Stats.TotalReviews)
		assert.InDelta(t, 50.0, history.Stats.SuccessRate, 0.001)
		assert.InDelta(t, 7.0, history.Stats.AverageTimeSeconds, 0.001)
	})

	t.Run("card of another user", func(t *testing.T) {
		mocks := newMockStores()
		mocks.cards.On("GetByID", mock.Anything, f.card.ID).Return(f.card, nil)
		mocks.decks.On("GetByID", mock.Anything, f.deck.ID).Return(f.deck, nil)

		_, err := newTestService(t, mocks).CardHistory(context.Background(), uuid.New(), f.card.ID)
		assert.ErrorIs(t, err, card_review.ErrCardNotOwned)
		mocks.reviews.AssertNotCalled(t, "ListByCard", mock.Anything, mock.Anything)
	})
}
