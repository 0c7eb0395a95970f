package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPathUUID(t *testing.T) {
	validUUID := uuid.New()

	tests := []struct {
		name      string
		params    map[string]string
		wantID    uuid.UUID
		wantErrIs error
	}{
		{
			name:   "valid UUID",
			params: map[string]string{"deckID": validUUID.String()},
			wantID: validUUID,
		},
		{
			name:      "missing parameter",
			params:    map[string]string{},
			wantErrIs: domain.ErrValidation,
		},
		{
			name:      "malformed UUID",
			params:    map[string]string{"deckID": "not-a-uuid"},
			wantErrIs: domain.ErrInvalidID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := newHandlerRequest(t, http.MethodGet, "/", nil, uuid.Nil, tc.params)

			id, err := getPathUUID(req, "deckID")
			if tc.wantErrIs != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErrIs))
				assert.Equal(t, uuid.Nil, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestGetQueryInt(t *testing.T) {
	tests := []struct {
		target  string
		want    int
		wantErr bool
	}{
		{"/review-cards", 0, false},
		{"/review-cards?limit=25", 25, false},
		{"/review-cards?limit=-3", -3, false},
		{"/review-cards?limit=ten", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			n, err := getQueryInt(req, "limit")
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestHandleUserIDAndPathUUID(t *testing.T) {
	userID := uuid.New()
	deckID := uuid.New()

	t.Run("success", func(t *testing.T) {
		req := newHandlerRequest(t, http.MethodGet, "/", nil, userID, map[string]string{"deckID": deckID.String()})
		rr := httptest.NewRecorder()

		gotUser, gotDeck, ok := handleUserIDAndPathUUID(rr, req, "deckID", discardLogger())

		assert.True(t, ok)
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, deckID, gotDeck)
	})

	t.Run("no user", func(t *testing.T) {
		req := newHandlerRequest(t, http.MethodGet, "/", nil, uuid.Nil, map[string]string{"deckID": deckID.String()})
		rr := httptest.NewRecorder()

		_, _, ok := handleUserIDAndPathUUID(rr, req, "deckID", nil)

		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("bad path", func(t *testing.T) {
		req := newHandlerRequest(t, http.MethodGet, "/", nil, userID, map[string]string{"deckID": "xyz"})
		rr := httptest.NewRecorder()

		_, _, ok := handleUserIDAndPathUUID(rr, req, "deckID", discardLogger())

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid ID format", decodeError(t, rr).Error)
	})
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        interface{}
		wantOK      bool
		wantMessage string
	}{
		{"valid", `{"name":"Spanish"}`, true, ""},
		{"empty body", nil, false, "Request body is required"},
		{"malformed", `{"name":`, false, "Invalid request format"},
		{"unknown field", `{"name":"x","owner":"y"}`, false, "Invalid request format"},
		{"missing name", `{"description":"d"}`, false, "Invalid name: required field"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := newHandlerRequest(t, http.MethodPost, "/", tc.body, uuid.New(), nil)
			rr := httptest.NewRecorder()

			var dst CreateDeckRequest
			ok := decodeAndValidate(rr, req, &dst, discardLogger())

			assert.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Equal(t, tc.wantMessage, decodeError(t, rr).Error)
			}
		})
	}
}
