package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/mocks"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func newTestReviewHandler(svc card_review.CardReviewService) *ReviewHandler {
	h := NewReviewHandler(svc, discardLogger())
	h.now = func() time.Time { return reviewNow }
	return h
}

func intPtr(v int) *int { return &v }

func TestNewReviewHandler_NilDependencies(t *testing.T) {
	assert.Panics(t, func() { NewReviewHandler(nil, discardLogger()) })
	assert.Panics(t, func() { NewReviewHandler(mocks.NewMockCardReviewService(), nil) })
}

func TestReviewHandler_SubmitReview(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()
	token := uuid.NewString()
	params := map[string]string{"token": token}

	t.Run("success", func(t *testing.T) {
		review := &domain.CardReview{
			ID:                 uuid.New(),
			CardID:             cardID,
			StudySessionID:     uuid.New(),
			Result:             5,
			TimeSpentSeconds:   12,
			PreviousDifficulty: 3,
			NewDifficulty:      1,
			NextReviewDate:     reviewNow.Add(24 * time.Hour),
			ReviewedAt:         reviewNow,
		}
		svc := mocks.NewMockCardReviewService(mocks.WithReview(review))
		h := newTestReviewHandler(svc)

		req := newHandlerRequest(t, http.MethodPost, "/", SubmitReviewRequest{
			CardID: cardID, Result: intPtr(5), TimeSpentSeconds: 12,
		}, userID, params)
		rr := httptest.NewRecorder()
		h.SubmitReview(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.Equal(t, 1, svc.SubmitReviewCalls.Count)
		assert.Equal(t, userID, svc.SubmitReviewCalls.UserIDs[0])
		assert.Equal(t, card_review.SubmitReviewInput{
			SessionToken:     token,
			CardID:           cardID,
			Result:           5,
			TimeSpentSeconds: 12,
		}, svc.SubmitReviewCalls.Inputs[0])

		var resp ReviewResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.NewDifficulty)
		assert.Equal(t, 3, resp.PreviousDifficulty)
		assert.Equal(t, reviewNow.Add(24*time.Hour), resp.NextReviewDate)
	})

	t.Run("zero result is a valid grade", func(t *testing.T) {
		svc := mocks.NewMockCardReviewService(mocks.WithReview(&domain.CardReview{ID: uuid.New()}))
		h := newTestReviewHandler(svc)

		req := newHandlerRequest(t, http.MethodPost, "/",
			SubmitReviewRequest{CardID: cardID, Result: intPtr(0)}, userID, params)
		rr := httptest.NewRecorder()
		h.SubmitReview(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, domain.ReviewResult(0), svc.SubmitReviewCalls.Inputs[0].Result)
	})

	validationCases := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"missing result", `{"card_id":"` + cardID.String() + `"}`, "Invalid result: required field"},
		{"result above range", `{"card_id":"` + cardID.String() + `","result":6}`, "Invalid result: value too large"},
		{"result below range", `{"card_id":"` + cardID.String() + `","result":-1}`, "Invalid result: value too small"},
		{
			"negative time",
			`{"card_id":"` + cardID.String() + `","result":3,"time_spent_seconds":-5}`,
			"Invalid time_spent_seconds: value too small",
		},
		{"malformed card id", `{"card_id":"nope","result":3}`, "Invalid request format"},
	}
	for _, tc := range validationCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockCardReviewService()
			h := newTestReviewHandler(svc)

			req := newHandlerRequest(t, http.MethodPost, "/", tc.body, userID, params)
			rr := httptest.NewRecorder()
			h.SubmitReview(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.wantMessage, decodeError(t, rr).Error)
			assert.Zero(t, svc.SubmitReviewCalls.Count, "service must not be called")
		})
	}

	errorCases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"session not found", card_review.ErrSessionNotFound, http.StatusNotFound, "Study session not found"},
		{"session not owned", card_review.ErrSessionNotOwned, http.StatusForbidden, "You do not own this study session"},
		{"card not found", card_review.ErrCardNotFound, http.StatusNotFound, "Card not found"},
		{
			"deck mismatch",
			card_review.ErrCardDeckMismatch,
			http.StatusConflict,
			"Card does not belong to this study session's deck",
		},
		{
			"store failure",
			card_review.NewSubmitReviewError("failed to record review", errors.New("tx aborted")),
			http.StatusInternalServerError,
			"Failed to submit review",
		},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockCardReviewService(mocks.WithError(tc.err))
			h := newTestReviewHandler(svc)

			req := newHandlerRequest(t, http.MethodPost, "/",
				SubmitReviewRequest{CardID: cardID, Result: intPtr(3)}, userID, params)
			rr := httptest.NewRecorder()
			h.SubmitReview(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, tc.wantMessage, decodeError(t, rr).Error)
		})
	}
}

func TestReviewHandler_DueCards(t *testing.T) {
	userID := uuid.New()
	deckID := uuid.New()
	params := map[string]string{"deckID": deckID.String()}

	t.Run("passes limit and clock through", func(t *testing.T) {
		card := &domain.Card{ID: uuid.New(), DeckID: deckID, Front: "f", Back: "b", NextReviewDate: reviewNow}
		svc := mocks.NewMockCardReviewService()
		svc.DueCardsFn = func(
			_ context.Context,
			asUser, gotDeck uuid.UUID,
			now time.Time,
			limit int,
		) (*card_review.DueCardsResult, error) {
			assert.Equal(t, userID, asUser)
			assert.Equal(t, deckID, gotDeck)
			assert.Equal(t, reviewNow, now)
			return &card_review.DueCardsResult{Cards: []*domain.Card{card}, TotalDue: 7}, nil
		}
		h := newTestReviewHandler(svc)

		req := newHandlerRequest(t, http.MethodGet, "/api/decks/x/review-cards?limit=1", nil, userID, params)
		rr := httptest.NewRecorder()
		h.DueCards(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []int{1}, svc.DueCardsCalls.Limits)

		var resp DueCardsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 7, resp.TotalDue)
		require.Len(t, resp.Cards, 1)
		assert.Equal(t, card.ID.String(), resp.Cards[0].ID)
	})

	t.Run("empty result encodes an empty list", func(t *testing.T) {
		svc := mocks.NewMockCardReviewService(mocks.WithDueCards(&card_review.DueCardsResult{}))
		h := newTestReviewHandler(svc)

		req := newHandlerRequest(t, http.MethodGet, "/review-cards", nil, userID, params)
		rr := httptest.NewRecorder()
		h.DueCards(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"cards":[],"total_due":0}`, rr.Body.String())
		assert.Equal(t, []int{0}, svc.DueCardsCalls.Limits, "missing limit defers to the service default")
	})

	t.Run("non-numeric limit", func(t *testing.T) {
		svc := mocks.NewMockCardReviewService()
		h := newTestReviewHandler(svc)

		req := newHandlerRequest(t, http.MethodGet, "/review-cards?limit=all", nil, userID, params)
		rr := httptest.NewRecorder()
		h.DueCards(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, svc.DueCardsCalls.Count)
	})

	t.Run("deck not owned", func(t *testing.T) {
		svc := mocks.NewMockCardReviewService(mocks.WithError(card_review.ErrDeckNotOwned))
		h := newTestReviewHandler(svc)

		req := newHandlerRequest(t, http.MethodGet, "/review-cards", nil, userID, params)
		rr := httptest.NewRecorder()
		h.DueCards(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestReviewHandler_CardHistory(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()
	params := map[string]string{"cardID": cardID.String()}

	t.Run("success", func(t *testing.T) {
		reviews := []*domain.CardReview{
			{ID: uuid.New(), CardID: cardID, Result: 0, TimeSpentSeconds: 4, ReviewedAt: reviewNow.Add(-time.Hour)},
			{ID: uuid.New(), CardID: cardID, Result: 4, TimeSpentSeconds: 10, ReviewedAt: reviewNow},
		}
		svc := mocks.NewMockCardReviewService()
		svc.History = &card_review.CardHistoryResult{
			CardID:  cardID,
			Reviews: reviews,
			Stats:   domain.SummarizeReviews(reviews),
		}
		h := newTestReviewHandler(svc)

		req := newHandlerRequest(t, http.MethodGet, "/", nil, userID, params)
		rr := httptest.NewRecorder()
		h.CardHistory(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp CardHistoryResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, cardID.String(), resp.CardID)
		require.Len(t, resp.Reviews, 2)
		assert.Equal(t, 0, resp.Reviews[0].Result)
		assert.Equal(t, 2, resp.Stats.TotalReviews)
		assert.Equal(t, 1, resp.Stats.CorrectCount)
		assert.InDelta(t, 50.0, resp.Stats.SuccessRate, 0.001)
	})

	t.Run("not owned", func(t *testing.T) {
		svc := mocks.NewMockCardReviewService(mocks.WithError(card_review.ErrCardNotOwned))
		h := newTestReviewHandler(svc)

		req := newHandlerRequest(t, http.MethodGet, "/", nil, userID, params)
		rr := httptest.NewRecorder()
		h.CardHistory(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "You do not own this card", decodeError(t, rr).Error)
	})
}
