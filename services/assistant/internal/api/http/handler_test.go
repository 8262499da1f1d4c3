package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/session"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/repository/memory"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/service"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/service/mocks"
)

type testEnv struct {
	router  http.Handler
	chat    *mocks.ChatCompleter
	speech  *mocks.SpeechSynthesizer
	credits *memory.CreditRepository
	sid     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	sessions := session.NewRedisStore(client, logger)
	sid := "sid-user-1"
	mr.HSet("session:"+sid, "user_id", "user-1")
	mr.SetTTL("session:"+sid, time.Hour)

	env := &testEnv{
		chat:    mocks.NewChatCompleter(t),
		speech:  mocks.NewSpeechSynthesizer(t),
		credits: memory.NewCreditRepository(),
		sid:     sid,
	}
	env.credits.SetBalance("user-1", 10)

	svc := service.NewAssistantService(env.chat, env.speech, env.credits, service.DefaultCreditCosts(), "voice-default", logger)
	env.router = NewRouter(NewHandler(svc, logger), sessions, func() bool { return true }, logger)
	return env
}

func (e *testEnv) post(t *testing.T, path, sid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set(session.HeaderSessionID, sid)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRoutes_RequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/ai/suggestions", "/ai/translate", "/ai/speech", "/ai/enhance"} {
		t.Run(path, func(t *testing.T) {
			rec := env.post(t, path, "", map[string]string{"text": "Bonjour"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = env.post(t, path, "unknown-sid", map[string]string{"text": "Bonjour"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestPostTranslate_UnknownLanguage(t *testing.T) {
	env := newTestEnv(t)
	env.chat.On("Complete", mock.Anything, mock.Anything).Return("Mbote", nil).Once()

	rec := env.post(t, "/ai/translate", env.sid, TranslationRequest{Text: "Bonjour", TargetLanguage: "ln"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "Mbote", body["translatedText"])
	assert.NotContains(t, body, "credits_warning")
}

func TestPostTranslate_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(t, "/ai/translate", env.sid, TranslationRequest{Text: "Bonjour"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "targetLanguage is required", decodeBody(t, rec)["error"])
}

func TestPostSuggestions(t *testing.T) {
	env := newTestEnv(t)
	env.chat.On("Complete", mock.Anything, mock.Anything).Return(`{"suggestions":["Chef de projet"]}`, nil).Once()

	rec := env.post(t, "/ai/suggestions", env.sid, SuggestionRequest{Field: "title", Context: "CV"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	suggestion, ok := decodeBody(t, rec)["suggestion"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Chef de projet"}, suggestion["suggestions"])
}

func TestPostSpeech_UpstreamError(t *testing.T) {
	env := newTestEnv(t)
	env.speech.On("Synthesize", mock.Anything, "Bonjour", "voice-default").
		Return(nil, &apperrors.UpstreamError{Service: "elevenlabs", Status: 401, StatusText: "Unauthorized"}).Once()

	rec := env.post(t, "/ai/speech", env.sid, SpeechRequest{Text: "Bonjour"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "401 Unauthorized")

	balance, err := env.credits.Balance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
}

func TestPostEnhance_CreditsWarning(t *testing.T) {
	env := newTestEnv(t)
	env.credits.SetBalance("user-1", 0)
	env.chat.On("Complete", mock.Anything, mock.Anything).Return("Texte amélioré", nil).Once()

	rec := env.post(t, "/ai/enhance", env.sid, EnhanceRequest{Text: "texte", Kind: service.EnhanceSummary})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "Texte amélioré", body["enhancedText"])
	assert.Equal(t, service.CreditsWarning, body["credits_warning"])
}

func TestGetCredits(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/credits", nil)
	req.Header.Set(session.HeaderSessionID, env.sid)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(10), decodeBody(t, rec)["balance"])
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health", "/metrics"} {
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
