package store

import "context"

// Stores groups the repositories a service needs for one unit of work.
// Inside Transactor.InTx every member is bound to the same transaction.
type Stores struct {
	Decks    DeckStore
	Cards    CardStore
	Sessions StudySessionStore
	Reviews  CardReviewStore
}

// StoresTxFn is the unit of work passed to Transactor.InTx.
type StoresTxFn func(ctx context.Context, tx Stores) error

// Transactor runs work against a backend either directly or atomically.
//
// InTx commits every write made through tx when fn returns nil and discards
// all of them when fn returns an error or panics. Concurrent InTx calls
// that lock the same card or session serialize on it.
//
// InReadTx runs fn against a single read-only snapshot, so several reads
// agree with each other even while other transactions commit. Writes made
// through tx fail or are discarded.
type Transactor interface {
	Stores() Stores
	InTx(ctx context.Context, fn StoresTxFn) error
	InReadTx(ctx context.Context, fn StoresTxFn) error
}
