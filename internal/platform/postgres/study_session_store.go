package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// PostgresStudySessionStore implements the store.StudySessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStudySessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudySessionStore creates a new PostgreSQL implementation of the StudySessionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStudySessionStore(db store.DBTX, logger *slog.Logger) *PostgresStudySessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudySessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_session_store")),
	}
}

// Ensure PostgresStudySessionStore implements store.StudySessionStore interface
var _ store.StudySessionStore = (*PostgresStudySessionStore)(nil)

// WithTx returns a copy of the store bound to tx.
func (s *PostgresStudySessionStore) WithTx(tx *sql.Tx) store.StudySessionStore {
	return &PostgresStudySessionStore{db: tx, logger: s.logger}
}

// Create implements store.StudySessionStore.Create
func (s *PostgresStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("study session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query, args, err := psql.Insert(studySessionsTable).
		Columns(studySessionColumns...).
		Values(
			session.ID,
			session.Token,
			session.UserID,
			session.DeckID,
			session.StartedAt,
			timePtrValue(session.CompletedAt),
			session.CardsReviewed,
			session.CorrectResponses,
			session.IncorrectResponses,
			session.TotalTimeSeconds,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build study session insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsUniqueViolation(err) {
			log.Warn("session token collision", slog.String("session_id", session.ID.String()))
			return store.ErrSessionTokenExists
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: deck with ID %s not found", store.ErrInvalidEntity, session.DeckID)
		}
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Debug("study session created",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", session.DeckID.String()))
	return nil
}

// GetByToken implements store.StudySessionStore.GetByToken
func (s *PostgresStudySessionStore) GetByToken(
	ctx context.Context,
	token string,
) (*domain.StudySession, error) {
	return s.getByToken(ctx, token, false)
}

// GetByTokenForUpdate implements store.StudySessionStore.GetByTokenForUpdate
func (s *PostgresStudySessionStore) GetByTokenForUpdate(
	ctx context.Context,
	token string,
) (*domain.StudySession, error) {
	return s.getByToken(ctx, token, true)
}

func (s *PostgresStudySessionStore) getByToken(
	ctx context.Context,
	token string,
	lock bool,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	builder := psql.Select(studySessionColumns...).
		From(studySessionsTable).
		Where(sq.Eq{"session_token": token})
	if lock {
		builder = builder.Suffix(lockSuffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build study session query: %w", err)
	}

	session, err := scanStudySession(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		mapped := mapEntityError(err, store.ErrStudySessionNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to get study session",
				slog.String("error", err.Error()),
				slog.Bool("for_update", lock))
		}
		return nil, mapped
	}

	return session, nil
}

// UpdateCompletion implements store.StudySessionStore.UpdateCompletion
func (s *PostgresStudySessionStore) UpdateCompletion(
	ctx context.Context,
	session *domain.StudySession,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.Update(studySessionsTable).
		Set("cards_reviewed", session.CardsReviewed).
		Set("correct_responses", session.CorrectResponses).
		Set("incorrect_responses", session.IncorrectResponses).
		Set("total_time_seconds", session.TotalTimeSeconds).
		Set("completed_at", timePtrValue(session.CompletedAt)).
		Where(uuidEq("id", session.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build study session update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrStudySessionNotFound)
}

// Delete implements store.StudySessionStore.Delete
func (s *PostgresStudySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.Delete(studySessionsTable).
		Where(uuidEq("id", id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build study session delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete study session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrStudySessionNotFound); err != nil {
		return err
	}

	log.Debug("study session deleted", slog.String("session_id", id.String()))
	return nil
}

// CountCompletedSince implements store.StudySessionStore.CountCompletedSince
func (s *PostgresStudySessionStore) CountCompletedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From(studySessionsTable).
		Where(uuidEq("user_id", userID)).
		Where(sq.NotEq{"completed_at": nil}).
		Where(sq.GtOrEq{"completed_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build study activity query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count completed sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}
	return count, nil
}

func scanStudySession(row rowScanner) (*domain.StudySession, error) {
	var session domain.StudySession
	var completedAt sql.NullTime

	if err := row.Scan(
		&session.ID,
		&session.Token,
		&session.UserID,
		&session.DeckID,
		&session.StartedAt,
		&completedAt,
		&session.CardsReviewed,
		&session.CorrectResponses,
		&session.IncorrectResponses,
		&session.TotalTimeSeconds,
	); err != nil {
		return nil, err
	}

	session.StartedAt = session.StartedAt.UTC()
	session.CompletedAt = nullTimePtr(completedAt)
	return &session, nil
}
