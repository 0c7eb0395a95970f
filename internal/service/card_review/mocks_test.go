package card_review_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockDeckStore is a mock implementation of the store.DeckStore interface
type MockDeckStore struct {
	mock.Mock
}

func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

func (m *MockDeckStore) TouchLastStudied(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockCardStore is a mock implementation of the store.CardStore interface
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardStore) ListDue(
	ctx context.Context,
	deckID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	args := m.Called(ctx, deckID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *MockCardStore) CountDue(ctx context.Context, deckID uuid.UUID, now time.Time) (int, error) {
	args := m.Called(ctx, deckID, now)
	return args.Int(0), args.Error(1)
}

// MockStudySessionStore is a mock implementation of the store.StudySessionStore interface
type MockStudySessionStore struct {
	mock.Mock
}

func (m *MockStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStudySessionStore) GetByToken(ctx context.Context, token string) (*domain.StudySession, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudySession), args.Error(1)
}

func (m *MockStudySessionStore) GetByTokenForUpdate(
	ctx context.Context,
	token string,
) (*domain.StudySession, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudySession), args.Error(1)
}

func (m *MockStudySessionStore) UpdateCompletion(ctx context.Context, session *domain.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStudySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudySessionStore) CountCompletedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

// MockCardReviewStore is a mock implementation of the store.CardReviewStore interface
type MockCardReviewStore struct {
	mock.Mock
}

func (m *MockCardReviewStore) Create(ctx context.Context, review *domain.CardReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockCardReviewStore) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.CardReview, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CardReview), args.Error(1)
}

func (m *MockCardReviewStore) StatsByCard(ctx context.Context, cardID uuid.UUID) (domain.CardReviewStats, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).(domain.CardReviewStats), args.Error(1)
}

func (m *MockCardReviewStore) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

// mockStores bundles the mocks behind a pass-through transactor that counts
// how the service opened its transactions.
type mockStores struct {
	decks    *MockDeckStore
	cards    *MockCardStore
	sessions *MockStudySessionStore
	reviews  *MockCardReviewStore

	txCalls     int
	readTxCalls int
}

func newMockStores() *mockStores {
	return &mockStores{
		decks:    &MockDeckStore{},
		cards:    &MockCardStore{},
		sessions: &MockStudySessionStore{},
		reviews:  &MockCardReviewStore{},
	}
}

func (m *mockStores) Stores() store.Stores {
	return store.Stores{Decks: m.decks, Cards: m.cards, Sessions: m.sessions, Reviews: m.reviews}
}

func (m *mockStores) InTx(ctx context.Context, fn store.StoresTxFn) error {
	m.txCalls++
	return fn(ctx, m.Stores())
}

func (m *mockStores) InReadTx(ctx context.Context, fn store.StoresTxFn) error {
	m.readTxCalls++
	return fn(ctx, m.Stores())
}

func (m *mockStores) AssertExpectations(t mock.TestingT) {
	m.decks.AssertExpectations(t)
	m.cards.AssertExpectations(t)
	m.sessions.AssertExpectations(t)
	m.reviews.AssertExpectations(t)
}
