package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx returns a copy of the store bound to tx.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	query, args, err := psql.Insert(decksTable).
		Columns(deckColumns...).
		Values(
			deck.ID,
			deck.UserID,
			deck.Name,
			deck.Description,
			timePtrValue(deck.LastStudiedAt),
			deck.CreatedAt,
			deck.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()),
			slog.String("user_id", deck.UserID.String()))
		return MapError(err)
	}

	log.Debug("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", deck.UserID.String()))
	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.Select(deckColumns...).
		From(decksTable).
		Where(uuidEq("id", id)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck query: %w", err)
	}

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		mapped := mapEntityError(err, store.ErrDeckNotFound)
		if store.IsNotFoundError(mapped) {
			log.Debug("deck not found", slog.String("deck_id", id.String()))
		} else {
			log.Error("failed to get deck by ID",
				slog.String("error", err.Error()),
				slog.String("deck_id", id.String()))
		}
		return nil, mapped
	}

	return deck, nil
}

// TouchLastStudied implements store.DeckStore.TouchLastStudied
func (s *PostgresDeckStore) TouchLastStudied(ctx context.Context, id uuid.UUID, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.Update(decksTable).
		Set("last_studied_at", at).
		Set("updated_at", at).
		Where(uuidEq("id", id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update deck last studied",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var deck domain.Deck
	var lastStudied sql.NullTime

	if err := row.Scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.Description,
		&lastStudied,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	); err != nil {
		return nil, err
	}

	deck.LastStudiedAt = nullTimePtr(lastStudied)
	deck.CreatedAt = deck.CreatedAt.UTC()
	deck.UpdatedAt = deck.UpdatedAt.UTC()
	return &deck, nil
}
