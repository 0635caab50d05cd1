package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatusCodes(t *testing.T) {
	expected := map[Kind]int{
		KindUnauthorized:       http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindInvalidCredentials: http.StatusUnauthorized,
		KindSessionExpired:     http.StatusUnauthorized,
		KindValidation:         http.StatusBadRequest,
		KindInvalidInput:       http.StatusBadRequest,
		KindNotFound:           http.StatusNotFound,
		KindResourceNotFound:   http.StatusNotFound,
		KindConflict:           http.StatusConflict,
		KindAlreadyExists:      http.StatusConflict,
		KindRateLimitExceeded:  http.StatusTooManyRequests,
		KindInternal:           http.StatusInternalServerError,
		KindDatabase:           http.StatusInternalServerError,
		KindExternalService:    http.StatusBadGateway,
		KindInsufficientStock:  http.StatusBadRequest,
		KindPaymentFailed:      http.StatusPaymentRequired,
		KindInvalidState:       http.StatusConflict,
	}

	require.Len(t, Kinds(), len(expected))
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), k)
		assert.Equal(t, expected[k], k.StatusCode(), k)
		assert.Equal(t, expected[k], New(k, "msg", 0).StatusCode, k)
	}

	assert.False(t, Kind("SOMETHING_ELSE").Valid())
	assert.Equal(t, http.StatusInternalServerError, Kind("SOMETHING_ELSE").StatusCode())
}

func TestKindValuesAreStable(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", string(KindNotFound))
	assert.Equal(t, "VALIDATION_ERROR", string(KindValidation))
	assert.Equal(t, "CONFLICT", string(KindConflict))
	assert.Equal(t, "INTERNAL_ERROR", string(KindInternal))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", string(KindRateLimitExceeded))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		kind        Kind
		status      int
		message     string
		operational bool
	}{
		{"unauthorized default", Unauthorized(""), KindUnauthorized, 401, "Unauthorized", true},
		{"forbidden", Forbidden("nope"), KindForbidden, 403, "nope", true},
		{"not found resource", NotFound("Item"), KindNotFound, 404, "Item not found", true},
		{"not found default", NotFound(""), KindNotFound, 404, "Resource not found", true},
		{"not found message", NotFoundMessage("Item", "gone"), KindNotFound, 404, "gone", true},
		{"validation", Validation("bad name", "name", nil), KindValidation, 400, "bad name", true},
		{"conflict", Conflict("taken", nil), KindConflict, 409, "taken", true},
		{"already exists", AlreadyExists("User"), KindAlreadyExists, 409, "User already exists", true},
		{"rate limit", RateLimited(""), KindRateLimitExceeded, 429, "Too many requests", true},
		{"internal", Internal("", nil), KindInternal, 500, "Internal server error", false},
		{"database", Database("", nil), KindDatabase, 500, "Database error", false},
		{"external", ExternalService("storage", errors.New("timeout")), KindExternalService, 502, "storage is unavailable", true},
		{"insufficient stock", InsufficientStock("Widget", 2), KindInsufficientStock, 400, "Insufficient stock for Widget", true},
		{"payment failed", PaymentFailed(""), KindPaymentFailed, 402, "Payment failed", true},
		{"invalid credentials", InvalidCredentials(), KindInvalidCredentials, 401, "Invalid email or password", true},
		{"session expired", SessionExpired(), KindSessionExpired, 401, "Your session has expired, please sign in again", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.message, tt.err.Message)
			assert.Equal(t, tt.operational, tt.err.Operational)
		})
	}
}

func TestNewStatusOverrideAndOperational(t *testing.T) {
	err := New(KindNotFound, "moved", http.StatusGone, WithOperational(false))
	assert.Equal(t, http.StatusGone, err.StatusCode)
	assert.False(t, err.Operational)
}

func TestBusinessMetadata(t *testing.T) {
	stock := InsufficientStock("Widget", 3)
	assert.Equal(t, map[string]any{"productName": "Widget", "available": 3}, stock.Metadata)

	payment := PaymentFailed("card declined")
	assert.Equal(t, "card declined", payment.Message)
	assert.Equal(t, "card declined", payment.Metadata["reason"])
}

func TestToExternalOmitsAbsentFields(t *testing.T) {
	b, err := json.Marshal(New(KindForbidden, "no access", 0).ToExternal())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"FORBIDDEN","message":"no access"}`, string(b))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.NotContains(t, raw, "field")
	assert.NotContains(t, raw, "metadata")
}

func TestToExternalIncludesSuppliedFields(t *testing.T) {
	e := Validation("too short", "name", map[string]any{"min": 1})
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"VALIDATION_ERROR","message":"too short","field":"name","metadata":{"min":1}}`, string(b))
}

func TestToExternalDoesNotShareMetadata(t *testing.T) {
	e := Conflict("taken", map[string]any{"a": 1})
	ext := e.ToExternal()
	ext.Metadata["a"] = 2
	assert.Equal(t, 1, e.Metadata["a"])
}

func TestUnwrapAndIs(t *testing.T) {
	cause := errors.New("disk full")
	e := New(KindInternal, "boom", 0, WithCause(cause))
	wrapped := fmt.Errorf("saving: %w", e)

	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, Is(wrapped, NotFound("x")))
	assert.True(t, Is(wrapped, Internal("", nil)))

	got, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Same(t, e, got)

	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.True(t, IsOperational(NotFound("x")))
	assert.False(t, IsOperational(errors.New("plain")))
	assert.Contains(t, e.Error(), "disk full")
}

func TestTypedNilAppErrorHelpers(t *testing.T) {
	var nilErr *AppError
	err := error(nilErr)

	_, ok := AsAppError(err)
	assert.False(t, ok)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.False(t, IsOperational(err))
	assert.False(t, Is(err, NotFound("x")))
	assert.Equal(t, "<nil>", nilErr.Error())
}
