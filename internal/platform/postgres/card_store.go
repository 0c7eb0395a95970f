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

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx returns a copy of the store bound to tx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create
// Returns store.ErrInvalidEntity if the deck does not exist (foreign key violation).
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query, args, err := psql.Insert(cardsTable).
		Columns(cardColumns...).
		Values(
			card.ID,
			card.DeckID,
			card.Front,
			card.Back,
			card.Notes,
			card.Difficulty,
			card.NextReviewDate,
			card.ReviewCount,
			card.CreatedAt,
			card.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during card creation",
				slog.String("card_id", card.ID.String()),
				slog.String("deck_id", card.DeckID.String()))
			return fmt.Errorf("%w: deck with ID %s not found", store.ErrInvalidEntity, card.DeckID)
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", card.DeckID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate implements store.CardStore.GetForUpdate
// The SELECT ... FOR UPDATE lock is held until the enclosing transaction ends.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresCardStore) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	builder := psql.Select(cardColumns...).
		From(cardsTable).
		Where(uuidEq("id", id))
	if lock {
		builder = builder.Suffix(lockSuffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card query: %w", err)
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		mapped := mapEntityError(err, store.ErrCardNotFound)
		if store.IsNotFoundError(mapped) {
			log.Debug("card not found", slog.String("card_id", id.String()))
		} else {
			log.Error("failed to get card",
				slog.String("error", err.Error()),
				slog.String("card_id", id.String()),
				slog.Bool("for_update", lock))
		}
		return nil, mapped
	}

	return card, nil
}

// UpdateSchedule implements store.CardStore.UpdateSchedule
func (s *PostgresCardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.Update(cardsTable).
		Set("difficulty", card.Difficulty).
		Set("next_review_date", card.NextReviewDate).
		Set("review_count", card.ReviewCount).
		Set("updated_at", card.UpdatedAt).
		Where(uuidEq("id", card.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update card schedule",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("card schedule updated",
		slog.String("card_id", card.ID.String()),
		slog.Int("difficulty", card.Difficulty),
		slog.Time("next_review_date", card.NextReviewDate))
	return nil
}

// ListDue implements store.CardStore.ListDue
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	deckID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := dueCardsQuery(deckID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build due cards query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0, limit)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()),
				slog.String("deck_id", deckID.String()))
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return cards, nil
}

// CountDue implements store.CardStore.CountDue
func (s *PostgresCardStore) CountDue(ctx context.Context, deckID uuid.UUID, now time.Time) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From(cardsTable).
		Where(uuidEq("deck_id", deckID)).
		Where(sq.LtOrEq{"next_review_date": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build due count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count due cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return 0, MapError(err)
	}
	return count, nil
}

func dueCardsQuery(deckID uuid.UUID, now time.Time, limit int) (string, []any, error) {
	builder := psql.Select(cardColumns...).
		From(cardsTable).
		Where(uuidEq("deck_id", deckID)).
		Where(sq.LtOrEq{"next_review_date": now}).
		OrderBy("next_review_date ASC", "id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	return builder.ToSql()
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	if err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.Notes,
		&card.Difficulty,
		&card.NextReviewDate,
		&card.ReviewCount,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}
	card.NextReviewDate = card.NextReviewDate.UTC()
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}
