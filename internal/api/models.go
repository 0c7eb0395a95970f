package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// CreateDeckRequest defines the payload for POST /api/decks.
type CreateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description"`
}

// CreateCardRequest defines the payload for POST /api/decks/{deckID}/cards.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
	Notes string `json:"notes"`
}

// SubmitReviewRequest defines the payload for POST /api/study-sessions/{token}/reviews.
// Result is a pointer so a missing result is distinguishable from a 0 ("forgot").
type SubmitReviewRequest struct {
	CardID           uuid.UUID `json:"card_id"            validate:"required"`
	Result           *int      `json:"result"             validate:"required,min=0,max=5"`
	TimeSpentSeconds int       `json:"time_spent_seconds" validate:"min=0"`
}

// CompleteSessionRequest defines the payload for PUT /api/study-sessions/{token}/complete.
type CompleteSessionRequest struct {
	CardsReviewed      int `json:"cards_reviewed"      validate:"min=0"`
	CorrectResponses   int `json:"correct_responses"   validate:"min=0"`
	IncorrectResponses int `json:"incorrect_responses" validate:"min=0"`
	TotalTimeSeconds   int `json:"total_time_seconds"  validate:"min=0"`
}

// Counters converts the request into the domain counters.
func (r CompleteSessionRequest) Counters() domain.SessionCounters {
	return domain.SessionCounters{
		CardsReviewed:      r.CardsReviewed,
		CorrectResponses:   r.CorrectResponses,
		IncorrectResponses: r.IncorrectResponses,
		TotalTimeSeconds:   r.TotalTimeSeconds,
	}
}

// DeckResponse represents a deck in API responses.
type DeckResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	LastStudiedAt *time.Time `json:"last_studied_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CardResponse represents a card in API responses.
type CardResponse struct {
	ID             string    `json:"id"`
	DeckID         string    `json:"deck_id"`
	Front          string    `json:"front"`
	Back           string    `json:"back"`
	Notes          string    `json:"notes,omitempty"`
	Difficulty     int       `json:"difficulty"`
	NextReviewDate time.Time `json:"next_review_date"`
	ReviewCount    int       `json:"review_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DueCardsResponse is the body of GET /api/decks/{deckID}/review-cards.
type DueCardsResponse struct {
	Cards    []CardResponse `json:"cards"`
	TotalDue int            `json:"total_due"`
}

// ReviewResponse represents a recorded review.
type ReviewResponse struct {
	ID                 string    `json:"id"`
	CardID             string    `json:"card_id"`
	StudySessionID     string    `json:"study_session_id"`
	Result             int       `json:"result"`
	TimeSpentSeconds   int       `json:"time_spent_seconds"`
	PreviousDifficulty int       `json:"previous_difficulty"`
	NewDifficulty      int       `json:"new_difficulty"`
	NextReviewDate     time.Time `json:"next_review_date"`
	ReviewedAt         time.Time `json:"reviewed_at"`
}

// CardHistoryResponse is the body of GET /api/cards/{cardID}/reviews.
type CardHistoryResponse struct {
	CardID  string                 `json:"card_id"`
	Reviews []ReviewResponse       `json:"reviews"`
	Stats   domain.CardReviewStats `json:"stats"`
}

// StudySessionResponse represents a study session.
type StudySessionResponse struct {
	SessionToken       string     `json:"session_token"`
	DeckID             string     `json:"deck_id"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CardsReviewed      int        `json:"cards_reviewed"`
	CorrectResponses   int        `json:"correct_responses"`
	IncorrectResponses int        `json:"incorrect_responses"`
	TotalTimeSeconds   int        `json:"total_time_seconds"`
}

// StudyActivityResponse is the body of GET /api/stats/study-activity.
type StudyActivityResponse struct {
	PeriodDays        int       `json:"period_days"`
	CompletedSessions int       `json:"completed_sessions"`
	Since             time.Time `json:"since"`
}

func deckToResponse(d *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:            d.ID.String(),
		Name:          d.Name,
		Description:   d.Description,
		LastStudiedAt: d.LastStudiedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func cardToResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:             c.ID.String(),
		DeckID:         c.DeckID.String(),
		Front:          c.Front,
		Back:           c.Back,
		Notes:          c.Notes,
		Difficulty:     c.Difficulty,
		NextReviewDate: c.NextReviewDate,
		ReviewCount:    c.ReviewCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func reviewToResponse(r *domain.CardReview) ReviewResponse {
	return ReviewResponse{
		ID:                 r.ID.String(),
		CardID:             r.CardID.String(),
		StudySessionID:     r.StudySessionID.String(),
		Result:             int(r.Result),
		TimeSpentSeconds:   r.TimeSpentSeconds,
		PreviousDifficulty: r.PreviousDifficulty,
		NewDifficulty:      r.NewDifficulty,
		NextReviewDate:     r.NextReviewDate,
		ReviewedAt:         r.ReviewedAt,
	}
}

func sessionToResponse(s *domain.StudySession) StudySessionResponse {
	return StudySessionResponse{
		SessionToken:       s.Token,
		DeckID:             s.DeckID.String(),
		StartedAt:          s.StartedAt,
		CompletedAt:        s.CompletedAt,
		CardsReviewed:      s.CardsReviewed,
		CorrectResponses:   s.CorrectResponses,
		IncorrectResponses: s.IncorrectResponses,
		TotalTimeSeconds:   s.TotalTimeSeconds,
	}
}
