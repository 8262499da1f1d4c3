package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/metrics"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/service"
)

// messageReader - часть kafka.Reader, нужная consumer
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PaymentCompletedHandler обрабатывает разобранное событие
type PaymentCompletedHandler interface {
	HandlePaymentCompleted(ctx context.Context, event service.PaymentCompletedEvent, topic string, partition int, offset int64) error
}

type deadLetterPublisher interface {
	Publish(ctx context.Context, original kafka.Message, cause error, eventType, eventID, orderID string) error
}

// Пауза после ошибки FetchMessage, чтобы не крутить пустой цикл
const fetchErrorPause = time.Second

// paymentCompletedPayload - JSON события, публикуемого order service
type paymentCompletedPayload struct {
	EventID      string  `json:"event_id"`
	EventType    string  `json:"event_type"`
	EventVersion int     `json:"event_version"`
	OccurredAt   string  `json:"occurred_at"`
	OrderID      string  `json:"order_id"`
	UserID       string  `json:"user_id"`
	Reference    string  `json:"reference"`
	Amount       int64   `json:"amount"`
	Channel      string  `json:"channel"`
	PaidAt       *string `json:"paid_at"`
}

// PaymentCompletedConsumer обрабатывает события оплаты заказа из Kafka
type PaymentCompletedConsumer struct {
	logger      *zap.Logger
	reader      messageReader
	handler     PaymentCompletedHandler
	dlq         deadLetterPublisher
	topic       string
	groupID     string
	maxAttempts int
	backoffBase time.Duration
}

// NewPaymentCompletedConsumer создаёт consumer группы groupID для топика topic
func NewPaymentCompletedConsumer(
	logger *zap.Logger,
	brokers []string,
	groupID, topic string,
	handler PaymentCompletedHandler,
	dlq *DLQPublisher,
	maxAttempts int,
	backoffBase time.Duration,
) *PaymentCompletedConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return newConsumer(logger, reader, handler, dlq, topic, groupID, maxAttempts, backoffBase)
}

func newConsumer(
	logger *zap.Logger,
	reader messageReader,
	handler PaymentCompletedHandler,
	dlq deadLetterPublisher,
	topic, groupID string,
	maxAttempts int,
	backoffBase time.Duration,
) *PaymentCompletedConsumer {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if backoffBase <= 0 {
		backoffBase = time.Second
	}
	return &PaymentCompletedConsumer{
		logger:      logger,
		reader:      reader,
		handler:     handler,
		dlq:         dlq,
		topic:       topic,
		groupID:     groupID,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
	}
}

// Start читает сообщения до отмены ctx.
// At-least-once: FetchMessage, обработка, CommitMessages. Без commit сообщение придёт снова.
func (c *PaymentCompletedConsumer) Start(ctx context.Context) error {
	c.logger.Info("starting kafka consumer",
		zap.String("topic", c.topic),
		zap.String("group_id", c.groupID),
		zap.Int("max_retry_attempts", c.maxAttempts),
		zap.Duration("retry_backoff_base", c.backoffBase),
	)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				c.logger.Info("consumer stopped")
				return nil
			}
			c.logger.Error("failed to fetch message from kafka", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchErrorPause):
			}
			continue
		}

		if !c.processMessage(ctx, m) {
			continue
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("failed to commit message offset",
				zap.Error(err),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
			)
			continue
		}
		c.logger.Debug("message offset committed",
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
	}
}

// processMessage возвращает true, если offset можно коммитить:
// событие обработано или сохранено в DLQ
func (c *PaymentCompletedConsumer) processMessage(ctx context.Context, m kafka.Message) bool {
	// trace context продюсера (order service)
	msgCtx := observability.ExtractKafkaHeaders(ctx, m.Headers)
	logger := observability.L(msgCtx, c.logger).With(
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	)

	event, payload, err := parsePaymentCompleted(m.Value)
	if err != nil {
		logger.Error("failed to parse payment completed event", zap.Error(err))
		return c.toDLQ(msgCtx, logger, m, err, payload.EventType, payload.EventID, payload.OrderID)
	}

	logger = logger.With(zap.String("event_id", event.EventID), zap.String("order_id", event.OrderID))
	logger.Info("received payment completed event")

	if err := c.handleWithRetry(msgCtx, logger, m, event); err != nil {
		if ctx.Err() != nil {
			// остановка сервиса: без commit, событие придёт снова
			return false
		}
		logger.Error("failed to handle payment completed event after all retries, sending to DLQ", zap.Error(err))
		return c.toDLQ(msgCtx, logger, m, fmt.Errorf("exhausted %d attempts: %w", c.maxAttempts, err), event.EventType, event.EventID, event.OrderID)
	}

	logger.Info("payment completed event processed successfully")
	return true
}

// handleWithRetry: до maxAttempts попыток с экспоненциальной паузой base, 2*base, 4*base...
func (c *PaymentCompletedConsumer) handleWithRetry(ctx context.Context, logger *zap.Logger, m kafka.Message, event service.PaymentCompletedEvent) error {
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewExponential(c.backoffBase))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := c.handler.HandlePaymentCompleted(ctx, event, m.Topic, m.Partition, m.Offset); err != nil {
			logger.Warn("failed to handle payment completed event",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxAttempts),
			)
			return retry.RetryableError(err)
		}
		if attempt > 1 {
			logger.Info("payment completed event processed after retry", zap.Int("attempt", attempt))
		}
		return nil
	})
}

func (c *PaymentCompletedConsumer) toDLQ(ctx context.Context, logger *zap.Logger, m kafka.Message, cause error, eventType, eventID, orderID string) bool {
	// DLQ пишем и при отмене ctx, иначе сообщение зависнет между повторами
	if err := c.dlq.Publish(context.WithoutCancel(ctx), m, cause, eventType, eventID, orderID); err != nil {
		logger.Error("failed to publish to DLQ, not committing", zap.Error(err))
		return false
	}
	metrics.RecordNotification("dlq")
	return true
}

// parsePaymentCompleted разбирает JSON события. payload возвращается и при ошибке
// валидации, чтобы DLQ получил известные идентификаторы.
func parsePaymentCompleted(value []byte) (service.PaymentCompletedEvent, paymentCompletedPayload, error) {
	var p paymentCompletedPayload
	if err := json.Unmarshal(value, &p); err != nil {
		return service.PaymentCompletedEvent{}, paymentCompletedPayload{}, &ParseError{Message: "invalid JSON: " + err.Error()}
	}

	if p.EventID == "" {
		return service.PaymentCompletedEvent{}, p, &ParseError{Field: "event_id", Message: "event_id is required"}
	}
	if p.OrderID == "" {
		return service.PaymentCompletedEvent{}, p, &ParseError{Field: "order_id", Message: "order_id is required"}
	}

	event := service.PaymentCompletedEvent{
		EventID:      p.EventID,
		EventType:    p.EventType,
		EventVersion: p.EventVersion,
		OrderID:      p.OrderID,
		UserID:       p.UserID,
		Reference:    p.Reference,
		Amount:       p.Amount,
		Channel:      p.Channel,
	}

	if p.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, p.OccurredAt)
		if err != nil {
			return service.PaymentCompletedEvent{}, p, &ParseError{Field: "occurred_at", Message: "occurred_at must be RFC3339"}
		}
		event.OccurredAt = t
	}
	if p.PaidAt != nil && *p.PaidAt != "" {
		t, err := time.Parse(time.RFC3339, *p.PaidAt)
		if err != nil {
			return service.PaymentCompletedEvent{}, p, &ParseError{Field: "paid_at", Message: "paid_at must be RFC3339"}
		}
		event.PaidAt = &t
	}

	return event, p, nil
}

// Close закрывает Kafka reader
func (c *PaymentCompletedConsumer) Close() error {
	c.logger.Info("closing kafka consumer")
	return c.reader.Close()
}
