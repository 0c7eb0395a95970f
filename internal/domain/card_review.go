package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReviewResult is the grade given for a single review attempt.
// 0 means the answer was wrong; 1..5 mean it was right, from hardest (1)
// to easiest (5), with 3 as neutral.
type ReviewResult int

// Valid review results.
const (
	ResultIncorrect ReviewResult = 0
	ResultHardest   ReviewResult = 1
	ResultHard      ReviewResult = 2
	ResultNeutral   ReviewResult = 3
	ResultEasy      ReviewResult = 4
	ResultEasiest   ReviewResult = 5
)

var (
	// ErrInvalidReviewResult is returned when a grade is outside 0..5.
	ErrInvalidReviewResult = fmt.Errorf("%w: review result must be between 0 and 5", ErrInvalidArgument)

	// ErrNegativeTimeSpent is returned when the time spent on a review is negative.
	ErrNegativeTimeSpent = fmt.Errorf("%w: time spent cannot be negative", ErrInvalidArgument)

	// ErrReviewCardIDEmpty is returned when a review does not reference a card.
	ErrReviewCardIDEmpty = errors.New("card review card ID cannot be empty")

	// ErrReviewSessionIDEmpty is returned when a review does not reference a session.
	ErrReviewSessionIDEmpty = errors.New("card review session ID cannot be empty")
)

// IsValid reports whether r is within 0..5.
func (r ReviewResult) IsValid() bool {
	return r >= ResultIncorrect && r <= ResultEasiest
}

// IsCorrect reports whether r records a correct answer.
func (r ReviewResult) IsCorrect() bool {
	return r > ResultIncorrect
}

// CardReview is the audit record of one review transition. It snapshots the
// difficulty before and after the transition together with the date written
// to the card, and is never modified after creation.
type CardReview struct {
	ID                 uuid.UUID    `json:"id"`
	CardID             uuid.UUID    `json:"card_id"`
	StudySessionID     uuid.UUID    `json:"study_session_id"`
	Result             ReviewResult `json:"result"`
	TimeSpentSeconds   int          `json:"time_spent_seconds"`
	PreviousDifficulty int          `json:"previous_difficulty"`
	NewDifficulty      int          `json:"new_difficulty"`
	NextReviewDate     time.Time    `json:"next_review_date"`
	ReviewedAt         time.Time    `json:"reviewed_at"`
}

// NewCardReview creates the audit record for a transition of card within session.
func NewCardReview(
	cardID uuid.UUID,
	sessionID uuid.UUID,
	result ReviewResult,
	timeSpentSeconds int,
	previousDifficulty int,
	newDifficulty int,
	nextReviewDate time.Time,
	now time.Time,
) (*CardReview, error) {
	review := &CardReview{
		ID:                 uuid.New(),
		CardID:             cardID,
		StudySessionID:     sessionID,
		Result:             result,
		TimeSpentSeconds:   timeSpentSeconds,
		PreviousDifficulty: previousDifficulty,
		NewDifficulty:      newDifficulty,
		NextReviewDate:     nextReviewDate.UTC(),
		ReviewedAt:         now.UTC(),
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}
	return review, nil
}

// Validate checks if the CardReview has valid data.
func (r *CardReview) Validate() error {
	if r.CardID == uuid.Nil {
		return NewValidationError("card_id", "cannot be empty", ErrReviewCardIDEmpty)
	}
	if r.StudySessionID == uuid.Nil {
		return NewValidationError("study_session_id", "cannot be empty", ErrReviewSessionIDEmpty)
	}
	if !r.Result.IsValid() {
		return ErrInvalidReviewResult
	}
	if r.TimeSpentSeconds < 0 {
		return ErrNegativeTimeSpent
	}
	for _, d := range []int{r.PreviousDifficulty, r.NewDifficulty} {
		if d < MinDifficulty || d > MaxDifficulty {
			return NewValidationError("difficulty", "must be between 0 and 5", ErrCardDifficultyOutOfRange)
		}
	}
	return nil
}

// CardReviewStats summarizes the review history of one card.
type CardReviewStats struct {
	TotalReviews       int     `json:"total_reviews"`
	CorrectCount       int     `json:"correct_count"`
	IncorrectCount     int     `json:"incorrect_count"`
	AverageTimeSeconds float64 `json:"average_time_seconds"`
	SuccessRate        float64 `json:"success_rate"`
}

// NewCardReviewStats computes stats from raw counts. SuccessRate is a
// percentage and is zero when there are no reviews.
func NewCardReviewStats(total, correct, incorrect int, averageTime float64) CardReviewStats {
	stats := CardReviewStats{
		TotalReviews:       total,
		CorrectCount:       correct,
		IncorrectCount:     incorrect,
		AverageTimeSeconds: averageTime,
	}
	if total > 0 {
		stats.SuccessRate = float64(correct) / float64(total) * 100
	} else {
		stats.AverageTimeSeconds = 0
	}
	return stats
}

// SummarizeReviews computes stats for an in-memory slice of reviews.
func SummarizeReviews(reviews []*CardReview) CardReviewStats {
	var correct, incorrect, totalTime int
	for _, r := range reviews {
		if r.Result.IsCorrect() {
			correct++
		} else {
			incorrect++
		}
		totalTime += r.TimeSpentSeconds
	}

	var avg float64
	if len(reviews) > 0 {
		avg = float64(totalTime) / float64(len(reviews))
	}
	return NewCardReviewStats(len(reviews), correct, incorrect, avg)
}
