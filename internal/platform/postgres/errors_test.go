package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "no rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{
			name:   "unique violation",
			err:    &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "study_sessions_session_token_key"},
			wantIs: store.ErrDuplicate,
		},
		{
			name:   "foreign key violation",
			err:    &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "cards_deck_id_fkey"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "check violation",
			err:    &pgconn.PgError{Code: checkViolationCode, ConstraintName: "cards_difficulty_check"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "not null violation",
			err:    &pgconn.PgError{Code: notNullViolationCode, ColumnName: "front"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "wrapped pg error",
			err:    fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			wantIs: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantIs)
		})
	}

	t.Run("unmapped error passes through", func(t *testing.T) {
		original := errors.New("connection reset")
		assert.Same(t, original, MapError(original))
	})

	t.Run("driver error is not exposed through errors.As", func(t *testing.T) {
		mapped := MapError(&pgconn.PgError{Code: uniqueViolationCode})
		var pgErr *pgconn.PgError
		assert.False(t, errors.As(mapped, &pgErr))
	})
}

func TestMapEntityError(t *testing.T) {
	assert.Same(t, store.ErrCardNotFound, mapEntityError(sql.ErrNoRows, store.ErrCardNotFound))
	assert.ErrorIs(t,
		mapEntityError(&pgconn.PgError{Code: foreignKeyViolationCode}, store.ErrCardNotFound),
		store.ErrInvalidEntity)
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrDeckNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrDeckNotFound), store.ErrDeckNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)
	assert.Error(t, CheckRowsAffected(nil, nil))

	resultErr := errors.New("driver cannot count")
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewErrorResult(resultErr), nil), resultErr)
}

func TestViolationHelpers(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(store.ErrStudySessionNotFound))
}
