package postgres

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// lockSuffix turns a SELECT into a row-locking read inside a transaction.
const lockSuffix = "FOR UPDATE"

// Table names
const (
	decksTable         = "decks"
	cardsTable         = "cards"
	studySessionsTable = "study_sessions"
	cardReviewsTable   = "card_reviews"
)

var (
	deckColumns = []string{
		"id", "user_id", "name", "description", "last_studied_at", "created_at", "updated_at",
	}
	cardColumns = []string{
		"id", "deck_id", "front", "back", "notes", "difficulty",
		"next_review_date", "review_count", "created_at", "updated_at",
	}
	studySessionColumns = []string{
		"id", "session_token", "user_id", "deck_id", "started_at", "completed_at",
		"cards_reviewed", "correct_responses", "incorrect_responses", "total_time_seconds",
	}
	cardReviewColumns = []string{
		"id", "card_id", "study_session_id", "result", "time_spent_seconds",
		"previous_difficulty", "new_difficulty", "next_review_date", "reviewed_at",
	}
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func timePtrValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// uuidEq matches column against a UUID. sq.Eq would expand uuid.UUID, a
// [16]byte array, into an IN list of its bytes.
func uuidEq(column string, id uuid.UUID) sq.Sqlizer {
	return sq.Expr(column+" = ?", id)
}
