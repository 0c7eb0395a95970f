package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service/study_session"
)

// MockStudySessionService implements study_session.StudySessionService for testing
type MockStudySessionService struct {
	StartSessionFn func(ctx context.Context, asUser, deckID uuid.UUID) (*domain.StudySession, error)

	CompleteSessionFn func(
		ctx context.Context,
		asUser uuid.UUID,
		token string,
		counters domain.SessionCounters,
	) (*domain.StudySession, error)

	GetSessionFn func(ctx context.Context, asUser uuid.UUID, token string) (*domain.StudySession, error)

	DeleteSessionFn func(ctx context.Context, asUser uuid.UUID, token string) error

	StudyActivityFn func(
		ctx context.Context,
		asUser uuid.UUID,
		days int,
		now time.Time,
	) (*study_session.ActivityStats, error)

	// Default response values
	Session  *domain.StudySession
	Activity *study_session.ActivityStats
	Err      error
}

var _ study_session.StudySessionService = (*MockStudySessionService)(nil)

// StartSession implements the study_session.StudySessionService interface
func (m *MockStudySessionService) StartSession(
	ctx context.Context,
	asUser uuid.UUID,
	deckID uuid.UUID,
) (*domain.StudySession, error) {
	if m.StartSessionFn != nil {
		return m.StartSessionFn(ctx, asUser, deckID)
	}
	return m.Session, m.Err
}

// CompleteSession implements the study_session.StudySessionService interface
func (m *MockStudySessionService) CompleteSession(
	ctx context.Context,
	asUser uuid.UUID,
	token string,
	counters domain.SessionCounters,
) (*domain.StudySession, error) {
	if m.CompleteSessionFn != nil {
		return m.CompleteSessionFn(ctx, asUser, token, counters)
	}
	return m.Session, m.Err
}

// GetSession implements the study_session.StudySessionService interface
func (m *MockStudySessionService) GetSession(
	ctx context.Context,
	asUser uuid.UUID,
	token string,
) (*domain.StudySession, error) {
	if m.GetSessionFn != nil {
		return m.GetSessionFn(ctx, asUser, token)
	}
	return m.Session, m.Err
}

// DeleteSession implements the study_session.StudySessionService interface
func (m *MockStudySessionService) DeleteSession(ctx context.Context, asUser uuid.UUID, token string) error {
	if m.DeleteSessionFn != nil {
		return m.DeleteSessionFn(ctx, asUser, token)
	}
	return m.Err
}

// StudyActivity implements the study_session.StudySessionService interface
func (m *MockStudySessionService) StudyActivity(
	ctx context.Context,
	asUser uuid.UUID,
	days int,
	now time.Time,
) (*study_session.ActivityStats, error) {
	if m.StudyActivityFn != nil {
		return m.StudyActivityFn(ctx, asUser, days, now)
	}
	return m.Activity, m.Err
}
