package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// ErrInvalidParams is returned when a Params value cannot drive the algorithm.
var ErrInvalidParams = errors.New("invalid srs parameters")

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// IncorrectPenalty is how much difficulty rises after a wrong answer.
	IncorrectPenalty int

	// NeutralResult is the correct-answer grade that leaves difficulty unchanged.
	// Grades above it lower difficulty, grades below it raise it.
	NeutralResult int

	// Intervals maps each difficulty (the slice index) to the time until the
	// card is next due. It must have one entry per difficulty level.
	Intervals []time.Duration

	// FallbackInterval is used for any difficulty without a table entry.
	FallbackInterval time.Duration
}

// ParamsConfig allows overriding the default interval table when creating
// a new Params instance. The difficulty rules themselves are fixed.
type ParamsConfig struct {
	IntervalHours []int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		IncorrectPenalty: 2,
		NeutralResult:    int(domain.ResultNeutral),
		Intervals: []time.Duration{
			6 * time.Hour,       // 0: mastered
			24 * time.Hour,      // 1
			3 * 24 * time.Hour,  // 2
			7 * 24 * time.Hour,  // 3
			14 * 24 * time.Hour, // 4
			30 * 24 * time.Hour, // 5: hardest
		},
		FallbackInterval: 24 * time.Hour,
	}
}

// NewParams creates a new Params instance with custom configuration.
// An empty table keeps the defaults. A non-empty one must cover every
// difficulty level.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if len(config.IntervalHours) > 0 {
		intervals := make([]time.Duration, len(config.IntervalHours))
		for i, h := range config.IntervalHours {
			intervals[i] = time.Duration(h) * time.Hour
		}
		params.Intervals = intervals
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks that the parameters describe a usable schedule.
func (p *Params) Validate() error {
	levels := domain.MaxDifficulty - domain.MinDifficulty + 1
	if len(p.Intervals) != levels {
		return fmt.Errorf("%w: need %d intervals, got %d", ErrInvalidParams, levels, len(p.Intervals))
	}
	for i, d := range p.Intervals {
		if d <= 0 {
			return fmt.Errorf("%w: interval for difficulty %d must be positive", ErrInvalidParams, i)
		}
	}
	if p.FallbackInterval <= 0 {
		return fmt.Errorf("%w: fallback interval must be positive", ErrInvalidParams)
	}
	if p.IncorrectPenalty < 0 {
		return fmt.Errorf("%w: incorrect penalty cannot be negative", ErrInvalidParams)
	}
	return nil
}
