// Package card_review implements the review transition engine and the
// due-card eligibility query.
package card_review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
)

// CardReviewService records graded reviews and answers which cards are due.
type CardReviewService interface {
	// SubmitReview applies a graded recall result to a card within a study session.
	//
	// The session, the card (locked for update) and the deck match are checked
	// inside one transaction, which then inserts the review record and updates
	// the card's difficulty, next review date and review count together.
	// Session counters are not touched; they are supplied when the session is
	// completed.
	//
	// Returns:
	//   - (*domain.CardReview, nil): the recorded review
	//   - ErrInvalidResult or ErrNegativeTimeSpent before any store access
	//   - ErrSessionNotFound, ErrSessionNotOwned, ErrCardNotFound or
	//     ErrCardDeckMismatch for failed preconditions, in that order
	//   - *ServiceError for unexpected store failures
	SubmitReview(ctx context.Context, asUser uuid.UUID, input SubmitReviewInput) (*domain.CardReview, error)

	// DueCards returns the cards of deckID due at now, soonest first, plus
	// the total due count. limit <= 0 selects the configured default and
	// larger values are clamped to the configured maximum.
	//
	// Returns ErrDeckNotFound or ErrDeckNotOwned.
	DueCards(
		ctx context.Context,
		asUser uuid.UUID,
		deckID uuid.UUID,
		now time.Time,
		limit int,
	) (*DueCardsResult, error)

	// CardHistory returns a card's reviews, oldest first, with aggregate stats.
	//
	// Returns ErrCardNotFound or ErrCardNotOwned.
	CardHistory(ctx context.Context, asUser uuid.UUID, cardID uuid.UUID) (*CardHistoryResult, error)
}

// SubmitReviewInput carries one graded review.
type SubmitReviewInput struct {
	SessionToken     string
	CardID           uuid.UUID
	Result           domain.ReviewResult
	TimeSpentSeconds int
}

// DueCardsResult is a bounded page of due cards.
type DueCardsResult struct {
	Cards    []*domain.Card `json:"cards"`
	TotalDue int            `json:"total_due"`
}

// CardHistoryResult is a card's review trail.
type CardHistoryResult struct {
	CardID  uuid.UUID              `json:"card_id"`
	Reviews []*domain.CardReview   `json:"reviews"`
	Stats   domain.CardReviewStats `json:"stats"`
}

// Default and maximum page sizes for DueCards.
const (
	DefaultDueLimit = 10
	MaxDueLimit     = 100
)

// Common error types for CardReviewService
var (
	// ErrInvalidResult indicates a result outside 0..5.
	ErrInvalidResult = domain.ErrInvalidReviewResult

	// ErrNegativeTimeSpent indicates a negative time spent.
	ErrNegativeTimeSpent = domain.ErrNegativeTimeSpent

	// ErrSessionNotFound indicates no session has the given token.
	ErrSessionNotFound = fmt.Errorf("%w: study session not found", domain.ErrNotFound)

	// ErrSessionNotOwned indicates the session belongs to another user.
	ErrSessionNotOwned = fmt.Errorf("%w: study session is owned by another user", domain.ErrForbidden)

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = service.ErrCardNotFound

	// ErrCardNotOwned indicates the card's deck belongs to another user.
	ErrCardNotOwned = service.ErrCardNotOwned

	// ErrCardDeckMismatch indicates the card is not part of the session's deck.
	ErrCardDeckMismatch = fmt.Errorf("%w: card does not belong to the session's deck", domain.ErrConflict)

	// ErrDeckNotFound indicates the deck does not exist.
	ErrDeckNotFound = service.ErrDeckNotFound

	// ErrDeckNotOwned indicates the deck belongs to another user.
	ErrDeckNotOwned = service.ErrDeckNotOwned
)

// ServiceError wraps unexpected errors from the card review service.
type ServiceError = service.ServiceError

// NewSubmitReviewError returns a new ServiceError for the submit_review operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return service.NewServiceError("submit_review", message, err)
}

// NewDueCardsError returns a new ServiceError for the due_cards operation.
func NewDueCardsError(message string, err error) *ServiceError {
	return service.NewServiceError("due_cards", message, err)
}

// NewCardHistoryError returns a new ServiceError for the card_history operation.
func NewCardHistoryError(message string, err error) *ServiceError {
	return service.NewServiceError("card_history", message, err)
}
