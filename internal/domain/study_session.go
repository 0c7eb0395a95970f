package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("study session ID cannot be empty")

	// ErrSessionTokenEmpty is returned when a session has no token.
	ErrSessionTokenEmpty = errors.New("study session token cannot be empty")

	// ErrSessionUserIDEmpty is returned when a session has no owner.
	ErrSessionUserIDEmpty = errors.New("study session user ID cannot be empty")

	// ErrSessionDeckIDEmpty is returned when a session has no target deck.
	ErrSessionDeckIDEmpty = errors.New("study session deck ID cannot be empty")

	// ErrSessionCounterNegative is returned when any session counter is negative.
	ErrSessionCounterNegative = errors.New("study session counters cannot be negative")

	// ErrSessionAlreadyCompleted is returned when completing a session that
	// already has a completion time.
	ErrSessionAlreadyCompleted = fmt.Errorf("%w: study session already completed", ErrConflict)
)

// SessionCounters are the aggregate figures reported when a session completes.
type SessionCounters struct {
	CardsReviewed      int `json:"cards_reviewed"`
	CorrectResponses   int `json:"correct_responses"`
	IncorrectResponses int `json:"incorrect_responses"`
	TotalTimeSeconds   int `json:"total_time_seconds"`
}

// Validate checks that every counter is non-negative.
func (c SessionCounters) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"cards_reviewed", c.CardsReviewed},
		{"correct_responses", c.CorrectResponses},
		{"incorrect_responses", c.IncorrectResponses},
		{"total_time_seconds", c.TotalTimeSeconds},
	}
	for _, f := range fields {
		if f.value < 0 {
			return NewValidationError(f.name, "cannot be negative", ErrSessionCounterNegative)
		}
	}
	return nil
}

// StudySession groups the reviews a user performs on one deck.
type StudySession struct {
	ID          uuid.UUID  `json:"id"`
	Token       string     `json:"session_token"`
	UserID      uuid.UUID  `json:"user_id"`
	DeckID      uuid.UUID  `json:"deck_id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	SessionCounters
}

// NewStudySession creates a session for userID on deckID with a fresh token
// and zeroed counters.
func NewStudySession(userID, deckID uuid.UUID, now time.Time) (*StudySession, error) {
	session := &StudySession{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		UserID:    userID,
		DeckID:    deckID,
		StartedAt: now.UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrSessionIDEmpty)
	}
	if s.Token == "" {
		return NewValidationError("session_token", "cannot be empty", ErrSessionTokenEmpty)
	}
	if s.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrSessionUserIDEmpty)
	}
	if s.DeckID == uuid.Nil {
		return NewValidationError("deck_id", "cannot be empty", ErrSessionDeckIDEmpty)
	}
	return s.SessionCounters.Validate()
}

// IsCompleted reports whether the session has been finalized.
func (s *StudySession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// IsOwnedBy reports whether the session was created by userID.
func (s *StudySession) IsOwnedBy(userID uuid.UUID) bool {
	return s.UserID == userID
}

// Complete overwrites the counters and stamps the completion time.
// Unless allowRecompletion is set, a session can only be completed once.
func (s *StudySession) Complete(counters SessionCounters, now time.Time, allowRecompletion bool) error {
	if err := counters.Validate(); err != nil {
		return err
	}
	if s.IsCompleted() && !allowRecompletion {
		return ErrSessionAlreadyCompleted
	}

	completedAt := now.UTC()
	s.SessionCounters = counters
	s.CompletedAt = &completedAt
	return nil
}
