package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty bounds. 0 means mastered, 5 means hardest.
const (
	MinDifficulty = 0
	MaxDifficulty = 5
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when the front of a card is blank.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when the back of a card is blank.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrCardDifficultyOutOfRange is returned when difficulty is outside [0,5].
	ErrCardDifficultyOutOfRange = errors.New("card difficulty must be between 0 and 5")

	// ErrCardReviewCountNegative is returned when the review count is negative.
	ErrCardReviewCountNegative = errors.New("card review count cannot be negative")
)

// Card is a single learning item inside a deck. Its scheduling fields
// (Difficulty, NextReviewDate, ReviewCount) are only changed by a review transition.
type Card struct {
	ID             uuid.UUID `json:"id"`
	DeckID         uuid.UUID `json:"deck_id"`
	Front          string    `json:"front"`
	Back           string    `json:"back"`
	Notes          string    `json:"notes,omitempty"`
	Difficulty     int       `json:"difficulty"`
	NextReviewDate time.Time `json:"next_review_date"`
	ReviewCount    int       `json:"review_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck. New cards start at difficulty 0
// with no reviews and are due immediately.
// Returns an error if validation fails.
func NewCard(deckID uuid.UUID, front, back, notes string, now time.Time) (*Card, error) {
	now = now.UTC()
	card := &Card{
		ID:             uuid.New(),
		DeckID:         deckID,
		Front:          strings.TrimSpace(front),
		Back:           strings.TrimSpace(back),
		Notes:          notes,
		Difficulty:     MinDifficulty,
		NextReviewDate: now,
		ReviewCount:    0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrCardIDEmpty)
	}

	if c.DeckID == uuid.Nil {
		return NewValidationError("deck_id", "cannot be empty", ErrCardDeckIDEmpty)
	}

	if strings.TrimSpace(c.Front) == "" {
		return NewValidationError("front", "cannot be empty", ErrCardFrontEmpty)
	}

	if strings.TrimSpace(c.Back) == "" {
		return NewValidationError("back", "cannot be empty", ErrCardBackEmpty)
	}

	if c.Difficulty < MinDifficulty || c.Difficulty > MaxDifficulty {
		return NewValidationError("difficulty",
			fmt.Sprintf("must be between %d and %d", MinDifficulty, MaxDifficulty),
			ErrCardDifficultyOutOfRange)
	}

	if c.ReviewCount < 0 {
		return NewValidationError("review_count", "cannot be negative", ErrCardReviewCountNegative)
	}

	return nil
}

// ApplySchedule records the outcome of a review transition on the card:
// the new difficulty, the next review date, and one more completed review.
func (c *Card) ApplySchedule(difficulty int, nextReviewDate, now time.Time) error {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return NewValidationError("difficulty",
			fmt.Sprintf("must be between %d and %d", MinDifficulty, MaxDifficulty),
			ErrCardDifficultyOutOfRange)
	}

	c.Difficulty = difficulty
	c.NextReviewDate = nextReviewDate.UTC()
	c.ReviewCount++
	c.UpdatedAt = now.UTC()
	return nil
}

// IsDue reports whether the card is eligible for review at the given time.
func (c *Card) IsDue(now time.Time) bool {
	return !c.NextReviewDate.After(now)
}
