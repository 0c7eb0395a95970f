package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// PostgresCardReviewStore implements the store.CardReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardReviewStore creates a new PostgreSQL implementation of the CardReviewStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCardReviewStore(db store.DBTX, logger *slog.Logger) *PostgresCardReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_review_store")),
	}
}

// Ensure PostgresCardReviewStore implements store.CardReviewStore interface
var _ store.CardReviewStore = (*PostgresCardReviewStore)(nil)

// WithTx returns a copy of the store bound to tx.
func (s *PostgresCardReviewStore) WithTx(tx *sql.Tx) store.CardReviewStore {
	return &PostgresCardReviewStore{db: tx, logger: s.logger}
}

// Create implements store.CardReviewStore.Create
func (s *PostgresCardReviewStore) Create(ctx context.Context, review *domain.CardReview) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("card review validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", review.CardID.String()))
		return err
	}

	query, args, err := psql.Insert(cardReviewsTable).
		Columns(cardReviewColumns...).
		Values(
			review.ID,
			review.CardID,
			review.StudySessionID,
			int(review.Result),
			review.TimeSpentSeconds,
			review.PreviousDifficulty,
			review.NewDifficulty,
			review.NextReviewDate,
			review.ReviewedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card review insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create card review",
			slog.String("error", err.Error()),
			slog.String("card_id", review.CardID.String()),
			slog.String("session_id", review.StudySessionID.String()))
		return MapError(err)
	}

	return nil
}

// ListByCard implements store.CardReviewStore.ListByCard
func (s *PostgresCardReviewStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
) ([]*domain.CardReview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.Select(cardReviewColumns...).
		From(cardReviewsTable).
		Where(uuidEq("card_id", cardID)).
		OrderBy("reviewed_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card review query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query card reviews",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	reviews := []*domain.CardReview{}
	for rows.Next() {
		review, err := scanCardReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card review rows: %w", err)
	}

	return reviews, nil
}

// StatsByCard implements store.CardReviewStore.StatsByCard
func (s *PostgresCardReviewStore) StatsByCard(
	ctx context.Context,
	cardID uuid.UUID,
) (domain.CardReviewStats, error) {
	query, args, err := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE result > 0)",
		"COUNT(*) FILTER (WHERE result = 0)",
		"COALESCE(AVG(time_spent_seconds), 0)",
	).
		From(cardReviewsTable).
		Where(uuidEq("card_id", cardID)).
		ToSql()
	if err != nil {
		return domain.CardReviewStats{}, fmt.Errorf("failed to build card review stats query: %w", err)
	}

	var total, correct, incorrect int
	var avg float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total, &correct, &incorrect, &avg); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to aggregate card reviews",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return domain.CardReviewStats{}, MapError(err)
	}

	return domain.NewCardReviewStats(total, correct, incorrect, avg), nil
}

// DeleteBySession implements store.CardReviewStore.DeleteBySession
func (s *PostgresCardReviewStore) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	query, args, err := psql.Delete(cardReviewsTable).
		Where(uuidEq("study_session_id", sessionID)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build card review delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete session reviews",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

func scanCardReview(row rowScanner) (*domain.CardReview, error) {
	var review domain.CardReview
	var result int

	if err := row.Scan(
		&review.ID,
		&review.CardID,
		&review.StudySessionID,
		&result,
		&review.TimeSpentSeconds,
		&review.PreviousDifficulty,
		&review.NewDifficulty,
		&review.NextReviewDate,
		&review.ReviewedAt,
	); err != nil {
		return nil, err
	}

	review.Result = domain.ReviewResult(result)
	review.NextReviewDate = review.NextReviewDate.UTC()
	review.ReviewedAt = review.ReviewedAt.UTC()
	return &review, nil
}
