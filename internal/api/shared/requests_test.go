package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age"  validate:"min=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		errIs       error
	}{
		{name: "valid json", requestBody: `{"name": "test", "age": 30}`},
		{name: "invalid json", requestBody: `{"name": "test", "age": 30,}`, wantErr: true},
		{name: "empty body", requestBody: "", wantErr: true, errIs: ErrEmptyBody},
		{name: "unknown field", requestBody: `{"name": "test", "admin": true}`, wantErr: true},
		{name: "trailing object", requestBody: `{"name": "a"}{"name": "b"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.requestBody))
			var target decodeTarget

			err := DecodeJSON(req, &target)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "test", target.Name)
				return
			}
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&decodeTarget{Name: "x"}))
	assert.Error(t, ValidateRequest(&decodeTarget{}))
	assert.Error(t, ValidateRequest(&decodeTarget{Name: "x", Age: -1}))

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
