package elevenlabs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
)

func TestClient_Synthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "xi-key", r.Header.Get("xi-api-key"))

		var req speechRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Bonjour", req.Text)
		assert.Equal(t, defaultModel, req.ModelID)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-audio"))
	}))
	defer srv.Close()

	client := NewClient(zap.NewNop(), srv.URL, "xi-key", srv.Client())

	audio, err := client.Synthesize(t.Context(), "Bonjour", "voice-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-audio"), audio)
}

func TestClient_Synthesize_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	client := NewClient(zap.NewNop(), srv.URL, "bad", srv.Client())

	_, err := client.Synthesize(t.Context(), "Bonjour", "voice-1")
	require.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "401 Unauthorized")
}

func TestClient_Synthesize_RequiresVoice(t *testing.T) {
	client := NewClient(zap.NewNop(), "http://unused", "key", nil)

	_, err := client.Synthesize(t.Context(), "Bonjour", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
