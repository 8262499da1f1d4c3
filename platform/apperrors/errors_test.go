package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

func TestStatusCode(t *testing.T) {
	extra := map[error]int{errNotFound: http.StatusNotFound}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: Required("email"), want: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("checkout: %w", Invalid("amount", "amount must be > 0")), want: http.StatusBadRequest},
		{name: "upstream", err: &UpstreamError{Service: "paystack", Status: 503, StatusText: "Service Unavailable"}, want: http.StatusBadGateway},
		{name: "service sentinel", err: fmt.Errorf("get: %w", errNotFound), want: http.StatusNotFound},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err, extra))
		})
	}
}

func TestUpstreamError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("invalid key")
	err := &UpstreamError{Service: "openai", Status: 401, StatusText: "Unauthorized", Err: cause}

	assert.Equal(t, "openai error: 401 Unauthorized: invalid key", err.Error())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, cause)

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusInternalServerError, errors.New("pq: connection refused"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
	assert.Equal(t, false, body["success"])

	rec = httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, Required("orderId"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "orderId is required", body["error"])
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
