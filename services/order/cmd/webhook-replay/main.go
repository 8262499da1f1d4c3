// Package main - утилита для ручной проверки webhook'ов Paystack.
//
// Собирает событие charge.success / charge.failed, подписывает его тем же
// секретом, что и order service, и отправляет на POST /payments/webhook.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/logging"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/client/paystack"
)

const serviceName = "webhook-replay"

func main() {
	logger, err := logging.New(logging.Config{
		ServiceName: serviceName,
		Env:         "local",
		Level:       "info",
		Format:      "console",
	})
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logging.Sync(logger)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("webhook replay failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var (
		opts    eventOptions
		url     string
		secret  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   serviceName,
		Short: "Send a signed Paystack webhook event to the order service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required (or set PAYSTACK_SECRET_KEY)")
			}
			body, err := buildEvent(opts, time.Now())
			if err != nil {
				return err
			}
			return send(cmd.Context(), logger, url, paystack.NewSigner(secret), body, timeout)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&url, "url", "u", "http://127.0.0.1:8080/payments/webhook", "webhook endpoint")
	flags.StringVarP(&opts.Event, "event", "e", eventChargeSuccess, "event type (charge.success|charge.failed)")
	flags.StringVarP(&opts.Reference, "reference", "r", "", "transaction reference")
	flags.StringVarP(&opts.OrderID, "order", "o", "", "order id put into metadata.order_id")
	flags.Int64VarP(&opts.AmountMinor, "amount", "a", 0, "amount in minor units (kobo)")
	flags.StringVar(&opts.Email, "email", "customer@example.com", "customer email")
	flags.StringVar(&opts.Channel, "channel", "card", "payment channel")
	flags.StringVar(&secret, "secret", os.Getenv("PAYSTACK_SECRET_KEY"), "paystack secret key")
	flags.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	_ = cmd.MarkFlagRequired("reference")

	return cmd
}

// send подписывает тело и отправляет его на webhook endpoint
func send(ctx context.Context, logger *zap.Logger, url string, signer *paystack.Signer, body []byte, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(paystack.HeaderSignature, signer.Sign(body))

	resp, err := observability.NewHTTPClient(serviceName, timeout).Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	logger.Info("webhook delivered",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("response", respBody),
	)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook rejected: %s", resp.Status)
	}
	return nil
}
