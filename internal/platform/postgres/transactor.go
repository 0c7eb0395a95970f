package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/store"
)

// Transactor implements store.Transactor on a *sql.DB.
// InTx runs the unit of work in a single database transaction with every
// store bound to it; locked reads use SELECT ... FOR UPDATE.
type Transactor struct {
	db       *sql.DB
	decks    *PostgresDeckStore
	cards    *PostgresCardStore
	sessions *PostgresStudySessionStore
	reviews  *PostgresCardReviewStore
}

// Ensure Transactor implements store.Transactor interface
var _ store.Transactor = (*Transactor)(nil)

// NewTransactor creates the PostgreSQL stores and the transactor that binds them.
func NewTransactor(db *sql.DB, logger *slog.Logger) *Transactor {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Transactor{
		db:       db,
		decks:    NewPostgresDeckStore(db, logger),
		cards:    NewPostgresCardStore(db, logger),
		sessions: NewPostgresStudySessionStore(db, logger),
		reviews:  NewPostgresCardReviewStore(db, logger),
	}
}

// Stores returns stores that run each call in its own implicit transaction.
func (t *Transactor) Stores() store.Stores {
	return store.Stores{
		Decks:    t.decks,
		Cards:    t.cards,
		Sessions: t.sessions,
		Reviews:  t.reviews,
	}
}

// snapshotTxOptions gives every statement of a read transaction the same
// snapshot. READ COMMITTED would take a fresh one per statement.
var snapshotTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// InTx implements store.Transactor.InTx on top of store.RunInTransaction.
func (t *Transactor) InTx(ctx context.Context, fn store.StoresTxFn) error {
	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, t.bind(tx))
	})
}

// InReadTx implements store.Transactor.InReadTx with a read-only
// REPEATABLE READ transaction.
func (t *Transactor) InReadTx(ctx context.Context, fn store.StoresTxFn) error {
	return store.RunInTransactionWithOptions(ctx, t.db, snapshotTxOptions,
		func(ctx context.Context, tx *sql.Tx) error {
			return fn(ctx, t.bind(tx))
		})
}

func (t *Transactor) bind(tx *sql.Tx) store.Stores {
	return store.Stores{
		Decks:    t.decks.WithTx(tx),
		Cards:    t.cards.WithTx(tx),
		Sessions: t.sessions.WithTx(tx),
		Reviews:  t.reviews.WithTx(tx),
	}
}
