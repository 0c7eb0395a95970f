// Package memory provides in-process implementations of the internal/store
// interfaces. They back the server when database.driver is "memory" and
// give service tests a real transactional backend without PostgreSQL.
//
// A transaction holds the DB mutex for its whole duration and works on a
// copy of the state, which replaces the live state only on commit. This
// serializes transactions, which is a stronger guarantee than the row
// locks the PostgreSQL backend takes.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

type state struct {
	decks    map[uuid.UUID]domain.Deck
	cards    map[uuid.UUID]domain.Card
	sessions map[uuid.UUID]domain.StudySession
	tokens   map[string]uuid.UUID
	// reviews keeps insertion order, which is also reviewed_at order for
	// a single card because reviews of a card are serialized.
	reviews []domain.CardReview
}

func newState() *state {
	return &state{
		decks:    make(map[uuid.UUID]domain.Deck),
		cards:    make(map[uuid.UUID]domain.Card),
		sessions: make(map[uuid.UUID]domain.StudySession),
		tokens:   make(map[string]uuid.UUID),
	}
}

func (s *state) clone() *state {
	c := &state{
		decks:    make(map[uuid.UUID]domain.Deck, len(s.decks)),
		cards:    make(map[uuid.UUID]domain.Card, len(s.cards)),
		sessions: make(map[uuid.UUID]domain.StudySession, len(s.sessions)),
		tokens:   make(map[string]uuid.UUID, len(s.tokens)),
		reviews:  make([]domain.CardReview, len(s.reviews)),
	}
	for k, v := range s.decks {
		c.decks[k] = v
	}
	for k, v := range s.cards {
		c.cards[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.tokens {
		c.tokens[k] = v
	}
	copy(c.reviews, s.reviews)
	return c
}

// DB is an in-memory database implementing store.Transactor.
type DB struct {
	mu     sync.Mutex
	state  *state
	logger *slog.Logger
}

// Ensure DB implements store.Transactor interface
var _ store.Transactor = (*DB)(nil)

// NewDB creates an empty in-memory database.
// If logger is nil, a default logger will be used.
func NewDB(logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{
		state:  newState(),
		logger: logger.With(slog.String("component", "memory_db")),
	}
}

// Stores returns stores that apply each call atomically on its own.
func (db *DB) Stores() store.Stores {
	return db.stores(nil)
}

// InTx implements store.Transactor.InTx.
func (db *DB) InTx(ctx context.Context, fn store.StoresTxFn) error {
	log := logger.FromContextOrDefault(ctx, db.logger)

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := db.state.clone()
	if err := fn(ctx, db.stores(working)); err != nil {
		log.Debug("rolled back transaction due to error", slog.String("error", err.Error()))
		return err
	}

	db.state = working
	log.Debug("transaction committed successfully")
	return nil
}

// InReadTx implements store.Transactor.InReadTx. fn sees the state as of
// the moment the lock was taken; anything it writes is dropped.
func (db *DB) InReadTx(ctx context.Context, fn store.StoresTxFn) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, db.stores(db.state.clone()))
}

func (db *DB) stores(tx *state) store.Stores {
	v := view{db: db, tx: tx}
	return store.Stores{
		Decks:    &DeckStore{view: v},
		Cards:    &CardStore{view: v},
		Sessions: &StudySessionStore{view: v},
		Reviews:  &CardReviewStore{view: v},
	}
}

// view routes a store call either to a transaction's working state or,
// outside a transaction, to the live state under the DB mutex.
type view struct {
	db *DB
	tx *state
}

func (v view) read(fn func(s *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	return fn(v.db.state)
}

// write is read with copy-on-write semantics outside a transaction, so a
// failing call leaves the live state untouched.
func (v view) write(fn func(s *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	working := v.db.state.clone()
	if err := fn(working); err != nil {
		return err
	}
	v.db.state = working
	return nil
}
