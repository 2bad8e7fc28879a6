package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
)

// maxRequestBody caps JSON request bodies at 1 MiB.
const maxRequestBody = 1 << 20

// errorBody is the wire shape for every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
// On failure it writes a validation error response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid request body"))
		return false
	}
	return true
}

// WriteJSON encodes v into a buffer first so an encoding failure can still
// produce a 500 instead of a truncated body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
		http.Error(w, `{"error":{"code":"internal","message":"internal error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// WriteError maps an application error to an HTTP status and writes the
// JSON error body. Internal details never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		// Plain errors carry no code and surface as internal.
		code = apperrors.ErrCodeInternal
	}
	status := statusForCode(code)

	msg := "internal error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code != apperrors.ErrCodeInternal {
		msg = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "status", status, "error", err)
	}
	WriteJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: msg,
		Field:   apperrors.GetField(err),
	}})
}

// statusForCode is the single mapping from error codes to HTTP statuses.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeForeignKey:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
