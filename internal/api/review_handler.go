package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
)

// ReviewHandler handles review submission, due-card and history requests.
type ReviewHandler struct {
	cardReviewService card_review.CardReviewService
	logger            *slog.Logger
	now               func() time.Time
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(cardReviewService card_review.CardReviewService, logger *slog.Logger) *ReviewHandler {
	if cardReviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardReviewService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		cardReviewService: cardReviewService,
		logger:            logger.With(slog.String("component", "review_handler")),
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// DueCards handles GET /decks/{deckID}/review-cards requests.
// The optional limit query parameter is clamped by the service.
func (h *ReviewHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "deckID", log)
	if !ok {
		return
	}

	limit, err := getQueryInt(r, "limit")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.cardReviewService.DueCards(r.Context(), userID, deckID, h.now(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get review cards")
		return
	}

	response := DueCardsResponse{
		Cards:    make([]CardResponse, 0, len(result.Cards)),
		TotalDue: result.TotalDue,
	}
	for _, card := range result.Cards {
		response.Cards = append(response.Cards, cardToResponse(card))
	}

	log.Debug("retrieved due cards",
		slog.String("deck_id", deckID.String()),
		slog.Int("returned", len(response.Cards)),
		slog.Int("total_due", result.TotalDue))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// SubmitReview handles POST /study-sessions/{token}/reviews requests.
// It records a graded review and reschedules the card.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, token, ok := handleUserIDAndToken(w, r, log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	review, err := h.cardReviewService.SubmitReview(r.Context(), userID, card_review.SubmitReviewInput{
		SessionToken:     token,
		CardID:           req.CardID,
		Result:           domain.ReviewResult(*req.Result),
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", req.CardID.String()),
		slog.Int("result", *req.Result),
		slog.Int("new_difficulty", review.NewDifficulty))
	shared.RespondWithJSON(w, r, http.StatusCreated, reviewToResponse(review))
}

// CardHistory handles GET /cards/{cardID}/reviews requests.
func (h *ReviewHandler) CardHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "cardID", log)
	if !ok {
		return
	}

	history, err := h.cardReviewService.CardHistory(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card history")
		return
	}

	response := CardHistoryResponse{
		CardID:  history.CardID.String(),
		Reviews: make([]ReviewResponse, 0, len(history.Reviews)),
		Stats:   history.Stats,
	}
	for _, review := range history.Reviews {
		response.Reviews = append(response.Reviews, reviewToResponse(review))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
