package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest, "validation"},
		{"unauthorized", apperrors.Unauthorized("who are you"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperrors.Forbidden("not yours"), http.StatusForbidden, "forbidden"},
		{"not found", apperrors.NotFound("gone"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.Conflict("already there"), http.StatusConflict, "conflict"},
		{"timeout", apperrors.Wrap(errors.New("deadline"), apperrors.ErrCodeTimeout, "too slow"), http.StatusGatewayTimeout, "timeout"},
		{"internal", apperrors.Internal("db exploded"), http.StatusInternalServerError, "internal"},
		{"plain error", errors.New("something broke"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestWriteError_InternalMessageNotLeaked(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.Internal("pq: relation profiles does not exist"))

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error.Message)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestWriteError_ValidationFieldSurfaced(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.ValidationField("email", "email domain is not a recognized college"))

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "email", body.Error.Field)
	assert.Equal(t, "email domain is not a recognized college", body.Error.Message)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
		rec := httptest.NewRecorder()
		var dst payload
		require.True(t, DecodeJSON(rec, req, &dst))
		assert.Equal(t, "ok", dst.Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","extra":1}`))
		rec := httptest.NewRecorder()
		var dst payload
		assert.False(t, DecodeJSON(rec, req, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		var dst payload
		assert.False(t, DecodeJSON(rec, req, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "job-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"job-1"}`, rec.Body.String())
}
