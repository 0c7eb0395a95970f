package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
)

// MockCardReviewService implements card_review.CardReviewService for testing
type MockCardReviewService struct {
	// Custom behavior functions
	SubmitReviewFn func(
		ctx context.Context,
		asUser uuid.UUID,
		input card_review.SubmitReviewInput,
	) (*domain.CardReview, error)
	DueCardsFn func(
		ctx context.Context,
		asUser uuid.UUID,
		deckID uuid.UUID,
		now time.Time,
		limit int,
	) (*card_review.DueCardsResult, error)
	CardHistoryFn func(
		ctx context.Context,
		asUser uuid.UUID,
		cardID uuid.UUID,
	) (*card_review.CardHistoryResult, error)

	// Default response values
	Review  *domain.CardReview
	Due     *card_review.DueCardsResult
	History *card_review.CardHistoryResult
	Err     error

	// Call tracking for verification
	SubmitReviewCalls struct {
		mu      sync.Mutex
		Count   int
		UserIDs []uuid.UUID
		Inputs  []card_review.SubmitReviewInput
	}

	DueCardsCalls struct {
		mu     sync.Mutex
		Count  int
		Limits []int
	}
}

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

// SubmitReview implements the card_review.CardReviewService interface
func (m *MockCardReviewService) SubmitReview(
	ctx context.Context,
	asUser uuid.UUID,
	input card_review.SubmitReviewInput,
) (*domain.CardReview, error) {
	m.SubmitReviewCalls.mu.Lock()
	m.SubmitReviewCalls.Count++
	m.SubmitReviewCalls.UserIDs = append(m.SubmitReviewCalls.UserIDs, asUser)
	m.SubmitReviewCalls.Inputs = append(m.SubmitReviewCalls.Inputs, input)
	m.SubmitReviewCalls.mu.Unlock()

	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, asUser, input)
	}
	return m.Review, m.Err
}

// DueCards implements the card_review.CardReviewService interface
func (m *MockCardReviewService) DueCards(
	ctx context.Context,
	asUser uuid.UUID,
	deckID uuid.UUID,
	now time.Time,
	limit int,
) (*card_review.DueCardsResult, error) {
	m.DueCardsCalls.mu.Lock()
	m.DueCardsCalls.Count++
	m.DueCardsCalls.Limits = append(m.DueCardsCalls.Limits, limit)
	m.DueCardsCalls.mu.Unlock()

	if m.DueCardsFn != nil {
		return m.DueCardsFn(ctx, asUser, deckID, now, limit)
	}
	return m.Due, m.Err
}

// CardHistory implements the card_review.CardReviewService interface
func (m *MockCardReviewService) CardHistory(
	ctx context.Context,
	asUser uuid.UUID,
	cardID uuid.UUID,
) (*card_review.CardHistoryResult, error) {
	if m.CardHistoryFn != nil {
		return m.CardHistoryFn(ctx, asUser, cardID)
	}
	return m.History, m.Err
}

// Reset clears the call tracking state
func (m *MockCardReviewService) Reset() {
	m.SubmitReviewCalls.mu.Lock()
	m.SubmitReviewCalls.Count = 0
	m.SubmitReviewCalls.UserIDs = nil
	m.SubmitReviewCalls.Inputs = nil
	m.SubmitReviewCalls.mu.Unlock()

	m.DueCardsCalls.mu.Lock()
	m.DueCardsCalls.Count = 0
	m.DueCardsCalls.Limits = nil
	m.DueCardsCalls.mu.Unlock()
}

// MockOption is a function type that configures a MockCardReviewService
type MockOption func(*MockCardReviewService)

// WithReview sets the default review returned from SubmitReview
func WithReview(review *domain.CardReview) MockOption {
	return func(m *MockCardReviewService) {
		m.Review = review
	}
}

// WithDueCards sets the default result returned from DueCards
func WithDueCards(result *card_review.DueCardsResult) MockOption {
	return func(m *MockCardReviewService) {
		m.Due = result
	}
}

// WithError sets the default error returned from every method
func WithError(err error) MockOption {
	return func(m *MockCardReviewService) {
		m.Err = err
	}
}

// NewMockCardReviewService creates a MockCardReviewService configured by opts
func NewMockCardReviewService(opts ...MockOption) *MockCardReviewService {
	m := &MockCardReviewService{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
