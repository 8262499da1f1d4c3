package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
)

const (
	eventTypePaymentCompleted = "order.payment.completed"
	eventVersion              = 1

	defaultPublishBackoff = 200 * time.Millisecond
)

// messageWriter - часть kafka.Writer, нужная publisher (подменяется в тестах)
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PaymentCompletedPayload - JSON события payment.completed
type PaymentCompletedPayload struct {
	EventID      string  `json:"event_id"`
	EventType    string  `json:"event_type"`
	EventVersion int     `json:"event_version"`
	OccurredAt   string  `json:"occurred_at"`
	OrderID      string  `json:"order_id"`
	UserID       string  `json:"user_id"`
	Reference    string  `json:"reference"`
	Amount       int64   `json:"amount"` // минорные единицы
	Channel      string  `json:"channel"`
	PaidAt       *string `json:"paid_at,omitempty"`
}

// PaymentEventPublisher реализует service.PaymentEventPublisher используя Kafka
type PaymentEventPublisher struct {
	logger     *zap.Logger
	writer     messageWriter
	topic      string
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
}

var _ service.PaymentEventPublisher = (*PaymentEventPublisher)(nil)

// NewPaymentEventPublisher создаёт Kafka publisher событий оплаты
func NewPaymentEventPublisher(logger *zap.Logger, brokers []string, topic string, maxRetries int, backoff time.Duration) *PaymentEventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // события одного заказа в одну партицию
		AllowAutoTopicCreation: true,
	}
	return newPublisher(logger, writer, topic, maxRetries, backoff)
}

func newPublisher(logger *zap.Logger, writer messageWriter, topic string, maxRetries int, backoff time.Duration) *PaymentEventPublisher {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	if backoff <= 0 {
		backoff = defaultPublishBackoff
	}
	return &PaymentEventPublisher{
		logger:     logger,
		writer:     writer,
		topic:      topic,
		maxRetries: maxRetries,
		backoff:    backoff,
		now:        time.Now,
	}
}

// Close закрывает Kafka writer
func (p *PaymentEventPublisher) Close() error {
	return p.writer.Close()
}

// PublishPaymentCompleted публикует событие с ключом order_id.
// До maxRetries попыток с паузой по Фибоначчи от backoff; затем возвращает последнюю ошибку.
func (p *PaymentEventPublisher) PublishPaymentCompleted(ctx context.Context, event service.PaymentCompletedEvent) error {
	msg, err := p.buildMessage(ctx, event)
	if err != nil {
		return err
	}

	logger := observability.L(ctx, p.logger).With(
		zap.String("topic", p.topic),
		zap.String("order_id", event.OrderID),
	)

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(p.maxRetries-1), retry.NewFibonacci(p.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			logger.Warn("failed to publish payment completed event",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", p.maxRetries),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish payment completed after %d attempts: %w", attempt, err)
	}

	logger.Info("payment completed event published",
		zap.String("reference", event.Reference),
		zap.Int("attempt", attempt),
	)
	return nil
}

func (p *PaymentEventPublisher) buildMessage(ctx context.Context, event service.PaymentCompletedEvent) (kafka.Message, error) {
	payload := PaymentCompletedPayload{
		EventID:      uuid.NewString(),
		EventType:    eventTypePaymentCompleted,
		EventVersion: eventVersion,
		OccurredAt:   p.now().UTC().Format(time.RFC3339),
		OrderID:      event.OrderID,
		UserID:       event.UserID,
		Reference:    event.Reference,
		Amount:       event.AmountMinor,
		Channel:      event.Channel,
	}
	if event.PaidAt != nil {
		paidAt := event.PaidAt.UTC().Format(time.RFC3339)
		payload.PaidAt = &paidAt
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal payment completed event: %w", err)
	}

	return kafka.Message{
		Key:     []byte(event.OrderID),
		Value:   value,
		Headers: observability.InjectKafkaHeaders(ctx, nil),
	}, nil
}
