package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/service/study_session"
)

// StudySessionHandler handles the study session lifecycle endpoints.
type StudySessionHandler struct {
	sessionService study_session.StudySessionService
	logger         *slog.Logger
	now            func() time.Time
}

// NewStudySessionHandler creates a new StudySessionHandler
func NewStudySessionHandler(
	sessionService study_session.StudySessionService,
	logger *slog.Logger,
) *StudySessionHandler {
	if sessionService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessionService cannot be nil for StudySessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudySessionHandler")
	}

	return &StudySessionHandler{
		sessionService: sessionService,
		logger:         logger.With(slog.String("component", "study_session_handler")),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// StartSession handles POST /decks/{deckID}/study-sessions requests.
func (h *StudySessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "deckID", log)
	if !ok {
		return
	}

	session, err := h.sessionService.StartSession(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start study session")
		return
	}

	log.Info("study session started",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", deckID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// GetSession handles GET /study-sessions/{token} requests.
func (h *StudySessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, token, ok := handleUserIDAndToken(w, r, log)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(r.Context(), userID, token)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get study session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// CompleteSession handles PUT /study-sessions/{token}/complete requests.
// The supplied counters replace whatever the session held.
func (h *StudySessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, token, ok := handleUserIDAndToken(w, r, log)
	if !ok {
		return
	}

	var req CompleteSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	session, err := h.sessionService.CompleteSession(r.Context(), userID, token, req.Counters())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete study session")
		return
	}

	log.Info("study session completed",
		slog.String("session_id", session.ID.String()),
		slog.Int("cards_reviewed", session.CardsReviewed))
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// DeleteSession handles DELETE /study-sessions/{token} requests.
func (h *StudySessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, token, ok := handleUserIDAndToken(w, r, log)
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(r.Context(), userID, token); err != nil {
		HandleAPIError(w, r, err, "Failed to delete study session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StudyActivity handles GET /stats/study-activity requests.
func (h *StudySessionHandler) StudyActivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	days, err := getQueryInt(r, "days")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.sessionService.StudyActivity(r.Context(), userID, days, h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get study activity")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StudyActivityResponse{
		PeriodDays:        stats.PeriodDays,
		CompletedSessions: stats.CompletedSessions,
		Since:             stats.Since,
	})
}
