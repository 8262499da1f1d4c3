package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
)

// messageWriter - часть kafka.Writer, нужная DLQ publisher
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DLQPublisher публикует сообщения в Dead Letter Queue
type DLQPublisher struct {
	logger *zap.Logger
	writer messageWriter
	now    func() time.Time
}

// NewDLQPublisher создаёт новый DLQ publisher
func NewDLQPublisher(logger *zap.Logger, brokers []string, topic string) *DLQPublisher {
	return newDLQPublisher(logger, &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	})
}

func newDLQPublisher(logger *zap.Logger, writer messageWriter) *DLQPublisher {
	return &DLQPublisher{logger: logger, writer: writer, now: time.Now}
}

// DLQMessage представляет сообщение для DLQ
type DLQMessage struct {
	OriginalTopic     string    `json:"original_topic"`
	OriginalPartition int       `json:"original_partition"`
	OriginalOffset    int64     `json:"original_offset"`
	OriginalKey       string    `json:"original_key"`
	OriginalValue     string    `json:"original_value"`
	ErrorMessage      string    `json:"error_message"`
	FailedAt          time.Time `json:"failed_at"`
	EventType         string    `json:"event_type,omitempty"`
	EventID           string    `json:"event_id,omitempty"`
	OrderID           string    `json:"order_id,omitempty"`
}

// Publish публикует сообщение в DLQ. Ключ - order_id, если известен, иначе исходный ключ.
func (p *DLQPublisher) Publish(ctx context.Context, original kafka.Message, cause error, eventType, eventID, orderID string) error {
	errorMsg := ""
	if cause != nil {
		errorMsg = cause.Error()
	}

	payload, err := json.Marshal(DLQMessage{
		OriginalTopic:     original.Topic,
		OriginalPartition: original.Partition,
		OriginalOffset:    original.Offset,
		OriginalKey:       string(original.Key),
		OriginalValue:     string(original.Value),
		ErrorMessage:      errorMsg,
		FailedAt:          p.now().UTC(),
		EventType:         eventType,
		EventID:           eventID,
		OrderID:           orderID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ message: %w", err)
	}

	key := original.Key
	if orderID != "" {
		key = []byte(orderID)
	}

	msg := kafka.Message{
		Key:     key,
		Value:   payload,
		Headers: observability.InjectKafkaHeaders(ctx, nil),
	}

	logger := observability.L(ctx, p.logger).With(
		zap.String("original_topic", original.Topic),
		zap.Int("original_partition", original.Partition),
		zap.Int64("original_offset", original.Offset),
	)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error("failed to publish message to DLQ", zap.Error(err))
		return err
	}

	logger.Info("message published to DLQ", zap.String("error_message", errorMsg))
	return nil
}

// Close закрывает writer
func (p *DLQPublisher) Close() error {
	p.logger.Info("closing DLQ publisher")
	return p.writer.Close()
}
