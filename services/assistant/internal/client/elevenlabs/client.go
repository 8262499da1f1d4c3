package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/service"
)

const (
	serviceName = "elevenlabs"
	// defaultModel - мультиязычная модель, французский поддерживается
	defaultModel = "eleven_multilingual_v2"
)

// Client вызывает POST /v1/text-to-speech/{voice_id}
type Client struct {
	logger  *zap.Logger
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ service.SpeechSynthesizer = (*Client)(nil)

// NewClient создаёт клиент ElevenLabs
func NewClient(logger *zap.Logger, baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize возвращает MP3 байты
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if voiceID == "" {
		return nil, apperrors.Required("voiceId")
	}

	body, err := json.Marshal(speechRequest{
		Text:          text,
		ModelID:       defaultModel,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/v1/text-to-speech/" + url.PathEscape(voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("text-to-speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Warn("elevenlabs returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("voice_id", voiceID),
			zap.ByteString("detail", detail),
		)
		return nil, &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: "empty audio"}
	}
	return audio, nil
}
