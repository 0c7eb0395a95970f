package card_review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/domain/srs"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/platform/tracing"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/scry-decks/internal/service/card_review"

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	tx           store.Transactor
	srsService   srs.Service
	now          func() time.Time
	defaultLimit int
	maxLimit     int
	tracer       trace.Tracer
	logger       *slog.Logger
}

// Option customizes a CardReviewService.
type Option func(*cardReviewServiceImpl)

// WithClock replaces the wall clock used for review timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *cardReviewServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDueLimits overrides DefaultDueLimit and MaxDueLimit.
// Non-positive values keep the defaults.
func WithDueLimits(defaultLimit, maxLimit int) Option {
	return func(s *cardReviewServiceImpl) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// NewCardReviewService creates a new CardReviewService implementation.
func NewCardReviewService(
	tx store.Transactor,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) CardReviewService {
	if tx == nil {
		panic("tx cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardReviewServiceImpl{
		tx:           tx,
		srsService:   srsService,
		now:          func() time.Time { return time.Now().UTC() },
		defaultLimit: DefaultDueLimit,
		maxLimit:     MaxDueLimit,
		tracer:       otel.Tracer(tracerName),
		logger:       logger.With(slog.String("component", "card_review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	return s
}

// SubmitReview implements CardReviewService.SubmitReview.
func (s *cardReviewServiceImpl) SubmitReview(
	ctx context.Context,
	asUser uuid.UUID,
	input SubmitReviewInput,
) (review *domain.CardReview, err error) {
	ctx, span := s.tracer.Start(ctx, "card_review.SubmitReview", trace.WithAttributes(
		attribute.String("card_id", input.CardID.String()),
		attribute.Int("result", int(input.Result)),
	))
	defer func() { tracing.End(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", asUser.String()),
		slog.String("card_id", input.CardID.String()),
	)

	if !input.Result.IsValid() {
		log.Warn("invalid review result", slog.Int("result", int(input.Result)))
		return nil, ErrInvalidResult
	}
	if input.TimeSpentSeconds < 0 {
		log.Warn("negative time spent", slog.Int("time_spent_seconds", input.TimeSpentSeconds))
		return nil, ErrNegativeTimeSpent
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, tx store.Stores) error {
		// The session row stays locked until commit so a concurrent
		// DeleteSession cannot remove it under the review insert.
		session, err := tx.Sessions.GetByTokenForUpdate(ctx, input.SessionToken)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionNotFound
			}
			return NewSubmitReviewError("failed to load study session", err)
		}
		if !session.IsOwnedBy(asUser) {
			log.Warn("review submitted against another user's session",
				slog.String("session_id", session.ID.String()))
			return ErrSessionNotOwned
		}

		card, err := tx.Cards.GetForUpdate(ctx, input.CardID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCardNotFound
			}
			return NewSubmitReviewError("failed to lock card", err)
		}
		if card.DeckID != session.DeckID {
			log.Warn("card is not in the session's deck",
				slog.String("card_deck_id", card.DeckID.String()),
				slog.String("session_deck_id", session.DeckID.String()))
			return ErrCardDeckMismatch
		}

		now := s.now()
		transition, err := s.srsService.CalculateTransition(card, input.Result, now)
		if err != nil {
			return NewSubmitReviewError("failed to calculate next review", err)
		}

		rec, err := domain.NewCardReview(
			card.ID,
			session.ID,
			input.Result,
			input.TimeSpentSeconds,
			transition.PreviousDifficulty,
			transition.NewDifficulty,
			transition.NextReviewDate,
			now,
		)
		if err != nil {
			return NewSubmitReviewError("failed to build review record", err)
		}
		if err := tx.Reviews.Create(ctx, rec); err != nil {
			// The card is locked, so a dangling reference means the
			// session disappeared.
			if errors.Is(err, store.ErrInvalidEntity) {
				return ErrSessionNotFound
			}
			return NewSubmitReviewError("failed to save review", err)
		}

		if err := card.ApplySchedule(transition.NewDifficulty, transition.NextReviewDate, now); err != nil {
			return NewSubmitReviewError("failed to apply schedule", err)
		}
		if err := tx.Cards.UpdateSchedule(ctx, card); err != nil {
			return NewSubmitReviewError("failed to update card schedule", err)
		}

		review = rec
		return nil
	})
	if err != nil {
		if service.IsExpected(err) {
			log.Debug("review rejected", slog.String("error", err.Error()))
			return nil, err
		}
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			err = NewSubmitReviewError("transaction failed", err)
		}
		log.Error("failed to submit review", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("review recorded",
		slog.String("review_id", review.ID.String()),
		slog.Int("previous_difficulty", review.PreviousDifficulty),
		slog.Int("new_difficulty", review.NewDifficulty),
		slog.Time("next_review_date", review.NextReviewDate))
	return review, nil
}

// DueCards implements CardReviewService.DueCards.
func (s *cardReviewServiceImpl) DueCards(
	ctx context.Context,
	asUser uuid.UUID,
	deckID uuid.UUID,
	now time.Time,
	limit int,
) (result *DueCardsResult, err error) {
	ctx, span := s.tracer.Start(ctx, "card_review.DueCards", trace.WithAttributes(
		attribute.String("deck_id", deckID.String()),
	))
	defer func() { tracing.End(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger)
	limit = s.effectiveLimit(limit)

	var (
		cards []*domain.Card
		total int
	)
	// The page and the total come from one snapshot so they always agree.
	err = s.tx.InReadTx(ctx, func(ctx context.Context, tx store.Stores) error {
		if _, err := service.AuthorizeDeck(ctx, tx.Decks, asUser, deckID); err != nil {
			if service.IsExpected(err) {
				return err
			}
			return NewDueCardsError("failed to load deck", err)
		}

		var err error
		cards, err = tx.Cards.ListDue(ctx, deckID, now, limit)
		if err != nil {
			return NewDueCardsError("failed to list due cards", err)
		}
		total, err = tx.Cards.CountDue(ctx, deckID, now)
		if err != nil {
			return NewDueCardsError("failed to count due cards", err)
		}
		return nil
	})
	if err != nil {
		if service.IsExpected(err) {
			return nil, err
		}
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			err = NewDueCardsError("transaction failed", err)
		}
		log.Error("failed to load due cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, err
	}

	span.SetAttributes(attribute.Int("total_due", total))
	return &DueCardsResult{Cards: cards, TotalDue: total}, nil
}

func (s *cardReviewServiceImpl) effectiveLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// CardHistory implements CardReviewService.CardHistory.
func (s *cardReviewServiceImpl) CardHistory(
	ctx context.Context,
	asUser uuid.UUID,
	cardID uuid.UUID,
) (result *CardHistoryResult, err error) {
	ctx, span := s.tracer.Start(ctx, "card_review.CardHistory", trace.WithAttributes(
		attribute.String("card_id", cardID.String()),
	))
	defer func() { tracing.End(span, err) }()

	stores := s.tx.Stores()

	if _, _, err := service.AuthorizeCard(ctx, stores, asUser, cardID); err != nil {
		if service.IsExpected(err) {
			return nil, err
		}
		return nil, NewCardHistoryError("failed to load card", err)
	}

	reviews, err := stores.Reviews.ListByCard(ctx, cardID)
	if err != nil {
		return nil, NewCardHistoryError("failed to list reviews", err)
	}

	stats, err := stores.Reviews.StatsByCard(ctx, cardID)
	if err != nil {
		return nil, NewCardHistoryError("failed to aggregate reviews", err)
	}

	return &CardHistoryResult{CardID: cardID, Reviews: reviews, Stats: stats}, nil
}
