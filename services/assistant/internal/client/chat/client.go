package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/service"
)

const serviceName = "ai"

// Client - клиент OpenAI-совместимого POST /chat/completions.
// Подходит и для api.openai.com/v1, и для AI шлюза Lovable.
type Client struct {
	logger  *zap.Logger
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

var _ service.ChatCompleter = (*Client)(nil)

// NewClient создаёт chat клиент. baseURL без завершающего /chat/completions
func NewClient(logger *zap.Logger, baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    httpClient,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete отправляет system + user сообщения и возвращает текст первого choice
func (c *Client) Complete(ctx context.Context, req service.ChatRequest) (string, error) {
	payload := completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
	}
	if req.JSON {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusText := http.StatusText(resp.StatusCode)
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			c.logger.Warn("ai gateway returned error",
				zap.Int("status", resp.StatusCode),
				zap.String("message", apiErr.Error.Message),
			)
		}
		return "", &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: statusText}
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: "invalid response body", Err: err}
	}
	if len(out.Choices) == 0 {
		return "", &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: "empty choices"}
	}
	return out.Choices[0].Message.Content, nil
}
