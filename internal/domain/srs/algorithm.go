package srs

import (
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
)

var defaultParams = NewDefaultParams()

// NextDifficulty returns the difficulty a card moves to after being graded
// result at difficulty current, using the default parameters.
func NextDifficulty(current int, result domain.ReviewResult) int {
	return nextDifficulty(current, result, defaultParams)
}

// NextReviewOffset returns how long after a review a card at the given
// difficulty becomes due again, using the default parameters.
func NextReviewOffset(difficulty int) time.Duration {
	return nextReviewOffset(difficulty, defaultParams)
}

// nextDifficulty computes the new difficulty for a graded review.
//
// Parameters:
//   - current: The card's difficulty before the review
//   - result: The grade, 0 for incorrect or 1..5 for correct
//   - params: Algorithm parameters
//
// Returns:
//   - The new difficulty, always within [MinDifficulty, MaxDifficulty]
//
// Algorithm behavior:
//   - An incorrect answer raises difficulty by IncorrectPenalty
//   - A correct answer moves difficulty by (NeutralResult - result), so easy
//     grades lower it and hard grades raise it
//   - The result is clamped to the valid range; a hard grade on an already
//     hard card would otherwise overshoot the top of the scale
func nextDifficulty(current int, result domain.ReviewResult, params *Params) int {
	var next int
	if !result.IsCorrect() {
		next = current + params.IncorrectPenalty
	} else {
		next = current - (int(result) - params.NeutralResult)
	}
	return clampDifficulty(next)
}

// nextReviewOffset looks up the interval for a difficulty.
// Difficulties outside the table use the fallback interval.
func nextReviewOffset(difficulty int, params *Params) time.Duration {
	if difficulty < 0 || difficulty >= len(params.Intervals) {
		return params.FallbackInterval
	}
	return params.Intervals[difficulty]
}

func clampDifficulty(d int) int {
	if d < domain.MinDifficulty {
		return domain.MinDifficulty
	}
	if d > domain.MaxDifficulty {
		return domain.MaxDifficulty
	}
	return d
}
