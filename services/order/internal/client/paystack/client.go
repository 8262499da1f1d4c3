package paystack

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
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
)

const serviceName = "paystack"

// Client реализует service.PaymentProvider и service.WebhookDecoder поверх Paystack REST API
type Client struct {
	logger    *zap.Logger
	baseURL   string
	secretKey string
	signer    *Signer
	http      *http.Client
}

var (
	_ service.PaymentProvider = (*Client)(nil)
	_ service.WebhookDecoder  = (*Client)(nil)
)

// NewClient создаёт клиент Paystack. httpClient задаёт таймаут и трейсинг
func NewClient(logger *zap.Logger, baseURL, secretKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		logger:    logger,
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		signer:    NewSigner(secretKey),
		http:      httpClient,
	}
}

// InitializeTransaction вызывает POST /transaction/initialize
func (c *Client) InitializeTransaction(ctx context.Context, req service.InitializeRequest) (service.InitializeResult, error) {
	body, err := json.Marshal(initializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return service.InitializeResult{}, fmt.Errorf("marshal initialize request: %w", err)
	}

	var data initializeData
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return service.InitializeResult{}, err
	}

	return service.InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// VerifyTransaction вызывает GET /transaction/verify/{reference}
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (service.Charge, error) {
	var data transactionData
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data); err != nil {
		return service.Charge{}, err
	}
	return data.toCharge(), nil
}

// DecodeWebhook проверяет x-paystack-signature и только потом разбирает тело
func (c *Client) DecodeWebhook(body []byte, signature string) (service.WebhookEvent, error) {
	if err := c.signer.Verify(body, signature); err != nil {
		return service.WebhookEvent{}, err
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return service.WebhookEvent{}, apperrors.Invalid("body", "invalid webhook payload: "+err.Error())
	}

	return service.WebhookEvent{
		Kind:   payload.Event,
		Charge: payload.Data.toCharge(),
	}, nil
}

// do выполняет запрос и разбирает конверт {status, message, data}.
// Не 2xx или status=false -> UpstreamError с текстом Paystack.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read paystack response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusText := env.Message
		if decodeErr != nil || statusText == "" {
			statusText = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("paystack returned error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", statusText),
		)
		return &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: statusText}
	}

	if decodeErr != nil {
		return &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: "invalid response body", Err: decodeErr}
	}
	if !env.Status {
		return &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &apperrors.UpstreamError{Service: serviceName, Status: resp.StatusCode, StatusText: "invalid response data", Err: err}
		}
	}
	return nil
}
