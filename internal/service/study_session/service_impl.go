package study_session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/platform/tracing"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/scry-decks/internal/service/study_session"

// tokenAttempts bounds how often StartSession regenerates a colliding token.
const tokenAttempts = 3

// Verify interface compliance at compile time
var _ StudySessionService = (*studySessionServiceImpl)(nil)

type studySessionServiceImpl struct {
	tx                  store.Transactor
	now                 func() time.Time
	allowRecompletion   bool
	defaultActivityDays int
	tracer              trace.Tracer
	logger              *slog.Logger
}

// Option customizes a StudySessionService.
type Option func(*studySessionServiceImpl)

// WithClock replaces the wall clock used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *studySessionServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecompletion lets CompleteSession overwrite an already completed session.
func WithRecompletion(allow bool) Option {
	return func(s *studySessionServiceImpl) {
		s.allowRecompletion = allow
	}
}

// WithDefaultActivityDays overrides DefaultActivityDays. Non-positive values are ignored.
func WithDefaultActivityDays(days int) Option {
	return func(s *studySessionServiceImpl) {
		if days > 0 {
			s.defaultActivityDays = min(days, MaxActivityDays)
		}
	}
}

// NewStudySessionService creates a new StudySessionService.
// It panics if tx is nil.
func NewStudySessionService(tx store.Transactor, logger *slog.Logger, opts ...Option) StudySessionService {
	if tx == nil {
		panic("tx cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &studySessionServiceImpl{
		tx:                  tx,
		now:                 func() time.Time { return time.Now().UTC() },
		defaultActivityDays: DefaultActivityDays,
		tracer:              otel.Tracer(tracerName),
		logger:              logger.With(slog.String("component", "study_session_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession implements StudySessionService.StartSession.
func (s *studySessionServiceImpl) StartSession(
	ctx context.Context,
	asUser uuid.UUID,
	deckID uuid.UUID,
) (session *domain.StudySession, err error) {
	ctx, span := s.tracer.Start(ctx, "study_session.StartSession", trace.WithAttributes(
		attribute.String("deck_id", deckID.String()),
	))
	defer func() { tracing.End(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", asUser.String()),
		slog.String("deck_id", deckID.String()),
	)

	for attempt := 1; ; attempt++ {
		err = s.tx.InTx(ctx, func(ctx context.Context, tx store.Stores) error {
			if _, err := service.AuthorizeDeck(ctx, tx.Decks, asUser, deckID); err != nil {
				return err
			}

			now := s.now()
			created, err := domain.NewStudySession(asUser, deckID, now)
			if err != nil {
				return err
			}
			if err := tx.Sessions.Create(ctx, created); err != nil {
				return err
			}
			if err := tx.Decks.TouchLastStudied(ctx, deckID, now); err != nil {
				return err
			}

			session = created
			return nil
		})
		if !errors.Is(err, store.ErrSessionTokenExists) || attempt == tokenAttempts {
			break
		}
		log.Warn("session token collision, retrying", slog.Int("attempt", attempt))
	}

	if err != nil {
		if service.IsExpected(err) {
			return nil, err
		}
		log.Error("failed to start study session", slog.String("error", err.Error()))
		return nil, NewStartSessionError("failed to create study session", err)
	}

	log.Info("study session started", slog.String("session_id", session.ID.String()))
	return session, nil
}

// CompleteSession implements StudySessionService.CompleteSession.
func (s *studySessionServiceImpl) CompleteSession(
	ctx context.Context,
	asUser uuid.UUID,
	token string,
	counters domain.SessionCounters,
) (session *domain.StudySession, err error) {
	ctx, span := s.tracer.Start(ctx, "study_session.CompleteSession", trace.WithAttributes(
		attribute.Int("cards_reviewed", counters.CardsReviewed),
	))
	defer func() { tracing.End(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", asUser.String()))

	if err := counters.Validate(); err != nil {
		log.Debug("invalid session counters", slog.String("error", err.Error()))
		return nil, err
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, tx store.Stores) error {
		current, err := s.ownedSession(ctx, tx.Sessions.GetByTokenForUpdate, asUser, token)
		if err != nil {
			return err
		}
		if err := current.Complete(counters, s.now(), s.allowRecompletion); err != nil {
			return err
		}
		if err := tx.Sessions.UpdateCompletion(ctx, current); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionNotFound
			}
			return NewCompleteSessionError("failed to save completion", err)
		}
		session = current
		return nil
	})
	if err != nil {
		if service.IsExpected(err) {
			log.Debug("session completion rejected", slog.String("error", err.Error()))
			return nil, err
		}
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			err = NewCompleteSessionError("transaction failed", err)
		}
		log.Error("failed to complete study session", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("study session completed",
		slog.String("session_id", session.ID.String()),
		slog.Int("cards_reviewed", session.CardsReviewed))
	return session, nil
}

// GetSession implements StudySessionService.GetSession.
func (s *studySessionServiceImpl) GetSession(
	ctx context.Context,
	asUser uuid.UUID,
	token string,
) (*domain.StudySession, error) {
	session, err := s.ownedSession(ctx, s.tx.Stores().Sessions.GetByToken, asUser, token)
	if err != nil {
		if service.IsExpected(err) {
			return nil, err
		}
		return nil, NewGetSessionError("failed to load study session", err)
	}
	return session, nil
}

// DeleteSession implements StudySessionService.DeleteSession.
func (s *studySessionServiceImpl) DeleteSession(ctx context.Context, asUser uuid.UUID, token string) (err error) {
	ctx, span := s.tracer.Start(ctx, "study_session.DeleteSession")
	defer func() { tracing.End(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", asUser.String()))

	var removed int64
	err = s.tx.InTx(ctx, func(ctx context.Context, tx store.Stores) error {
		session, err := s.ownedSession(ctx, tx.Sessions.GetByTokenForUpdate, asUser, token)
		if err != nil {
			return err
		}

		removed, err = tx.Reviews.DeleteBySession(ctx, session.ID)
		if err != nil {
			return NewDeleteSessionError("failed to delete session reviews", err)
		}
		if err := tx.Sessions.Delete(ctx, session.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionNotFound
			}
			return NewDeleteSessionError("failed to delete session", err)
		}
		return nil
	})
	if err != nil {
		if service.IsExpected(err) {
			return err
		}
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			err = NewDeleteSessionError("transaction failed", err)
		}
		log.Error("failed to delete study session", slog.String("error", err.Error()))
		return err
	}

	log.Info("study session deleted", slog.Int64("reviews_removed", removed))
	return nil
}

// StudyActivity implements StudySessionService.StudyActivity.
func (s *studySessionServiceImpl) StudyActivity(
	ctx context.Context,
	asUser uuid.UUID,
	days int,
	now time.Time,
) (*ActivityStats, error) {
	if days <= 0 {
		days = s.defaultActivityDays
	}
	days = min(days, MaxActivityDays)

	since := now.UTC().AddDate(0, 0, -days)
	count, err := s.tx.Stores().Sessions.CountCompletedSince(ctx, asUser, since)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count completed sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", asUser.String()))
		return nil, NewStudyActivityError("failed to count completed sessions", err)
	}

	return &ActivityStats{PeriodDays: days, CompletedSessions: count, Since: since}, nil
}

// ownedSession looks a session up with get and checks that asUser owns it.
func (s *studySessionServiceImpl) ownedSession(
	ctx context.Context,
	get func(context.Context, string) (*domain.StudySession, error),
	asUser uuid.UUID,
	token string,
) (*domain.StudySession, error) {
	session, err := get(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsOwnedBy(asUser) {
		return nil, ErrSessionNotOwned
	}
	return session, nil
}
