package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// Common errors
var (
	ErrNilCard = errors.New("card cannot be nil")
)

// Transition is the scheduling outcome of one review.
type Transition struct {
	PreviousDifficulty int
	NewDifficulty      int
	NextReviewDate     time.Time
}

// Service defines the interface for SRS algorithm operations
type Service interface {
	// NextDifficulty returns the new difficulty for a review graded result.
	// Returns domain.ErrInvalidReviewResult if result is outside 0..5.
	NextDifficulty(current int, result domain.ReviewResult) (int, error)

	// NextReviewOffset returns the delay before a card at difficulty is due again.
	NextReviewOffset(difficulty int) time.Duration

	// CalculateTransition computes the full transition for card at time now.
	// The card itself is not modified.
	CalculateTransition(card *domain.Card, result domain.ReviewResult, now time.Time) (*Transition, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrInvalidParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// NextDifficulty implements Service.
func (s *defaultService) NextDifficulty(current int, result domain.ReviewResult) (int, error) {
	if !result.IsValid() {
		return 0, domain.ErrInvalidReviewResult
	}
	return nextDifficulty(current, result, s.params), nil
}

// NextReviewOffset implements Service.
func (s *defaultService) NextReviewOffset(difficulty int) time.Duration {
	return nextReviewOffset(difficulty, s.params)
}

// CalculateTransition implements Service.
func (s *defaultService) CalculateTransition(
	card *domain.Card,
	result domain.ReviewResult,
	now time.Time,
) (*Transition, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	newDifficulty, err := s.NextDifficulty(card.Difficulty, result)
	if err != nil {
		return nil, err
	}

	return &Transition{
		PreviousDifficulty: card.Difficulty,
		NewDifficulty:      newDifficulty,
		NextReviewDate:     now.UTC().Add(nextReviewOffset(newDifficulty, s.params)),
	}, nil
}
