package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/service"
)

// fakeReader отдаёт сообщения по очереди, затем вызывает onDrain и ждёт отмены ctx
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	onDrain   func()
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) == 0 {
		r.mu.Unlock()
		r.onDrain()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.messages[0]
	r.messages = r.messages[1:]
	r.mu.Unlock()
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type fakeHandler struct {
	mu       sync.Mutex
	failures int // сколько первых вызовов вернут ошибку
	calls    int
	events   []service.PaymentCompletedEvent
}

func (h *fakeHandler) HandlePaymentCompleted(_ context.Context, event service.PaymentCompletedEvent, _ string, _ int, _ int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.calls <= h.failures {
		return errors.New("telegram down")
	}
	h.events = append(h.events, event)
	return nil
}

type dlqCall struct {
	offset  int64
	cause   string
	eventID string
	orderID string
}

type fakeDLQ struct {
	mu    sync.Mutex
	err   error
	calls []dlqCall
}

func (d *fakeDLQ) Publish(_ context.Context, m kafka.Message, cause error, _, eventID, orderID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, dlqCall{offset: m.Offset, cause: cause.Error(), eventID: eventID, orderID: orderID})
	return nil
}

func paymentMessage(t *testing.T, offset int64, payload map[string]any) kafka.Message {
	t.Helper()
	value, err := json.Marshal(payload)
	require.NoError(t, err)
	return kafka.Message{Topic: "payment.completed", Partition: 0, Offset: offset, Value: value}
}

func validPayload(eventID string) map[string]any {
	return map[string]any{
		"event_id":      eventID,
		"event_type":    "order.payment.completed",
		"event_version": 1,
		"occurred_at":   "2026-03-01T09:30:00Z",
		"order_id":      "order-1",
		"user_id":       "user-1",
		"reference":     "ref-1",
		"amount":        150050,
		"channel":       "card",
		"paid_at":       "2026-03-01T09:29:00Z",
	}
}

func runConsumer(t *testing.T, reader *fakeReader, handler *fakeHandler, dlq *fakeDLQ, maxAttempts int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reader.onDrain = cancel

	c := newConsumer(zap.NewNop(), reader, handler, dlq, "payment.completed", "g", maxAttempts, time.Millisecond)
	require.NoError(t, c.Start(ctx))
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{paymentMessage(t, 1, validPayload("evt-1"))}}
	handler := &fakeHandler{}
	dlq := &fakeDLQ{}

	runConsumer(t, reader, handler, dlq, 3)

	require.Len(t, handler.events, 1)
	event := handler.events[0]
	assert.Equal(t, "evt-1", event.EventID)
	assert.Equal(t, "order-1", event.OrderID)
	assert.Equal(t, int64(150050), event.Amount)
	assert.Equal(t, "card", event.Channel)
	require.NotNil(t, event.PaidAt)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 29, 0, 0, time.UTC), event.PaidAt.UTC())

	assert.Equal(t, []int64{1}, reader.committed)
	assert.Empty(t, dlq.calls)
}

func TestConsumer_RetriesThenSucceeds(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{paymentMessage(t, 5, validPayload("evt-1"))}}
	handler := &fakeHandler{failures: 2}
	dlq := &fakeDLQ{}

	runConsumer(t, reader, handler, dlq, 3)

	assert.Equal(t, 3, handler.calls)
	assert.Len(t, handler.events, 1)
	assert.Equal(t, []int64{5}, reader.committed)
	assert.Empty(t, dlq.calls)
}

func TestConsumer_ExhaustedRetriesGoToDLQ(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{paymentMessage(t, 7, validPayload("evt-1"))}}
	handler := &fakeHandler{failures: 10}
	dlq := &fakeDLQ{}

	runConsumer(t, reader, handler, dlq, 3)

	assert.Equal(t, 3, handler.calls)
	require.Len(t, dlq.calls, 1)
	assert.Equal(t, int64(7), dlq.calls[0].offset)
	assert.Equal(t, "evt-1", dlq.calls[0].eventID)
	assert.Equal(t, "order-1", dlq.calls[0].orderID)
	assert.Contains(t, dlq.calls[0].cause, "telegram down")
	assert.Equal(t, []int64{7}, reader.committed)
}

func TestConsumer_InvalidMessagesGoToDLQWithoutRetry(t *testing.T) {
	missingOrder := validPayload("evt-2")
	delete(missingOrder, "order_id")
	badDate := validPayload("evt-3")
	badDate["paid_at"] = "yesterday"

	reader := &fakeReader{messages: []kafka.Message{
		{Topic: "payment.completed", Offset: 1, Value: []byte("{not json")},
		paymentMessage(t, 2, missingOrder),
		paymentMessage(t, 3, badDate),
	}}
	handler := &fakeHandler{}
	dlq := &fakeDLQ{}

	runConsumer(t, reader, handler, dlq, 3)

	assert.Zero(t, handler.calls)
	require.Len(t, dlq.calls, 3)
	assert.Contains(t, dlq.calls[0].cause, "invalid JSON")
	assert.Equal(t, "order_id is required", dlq.calls[1].cause)
	assert.Equal(t, "evt-2", dlq.calls[1].eventID)
	assert.Equal(t, "paid_at must be RFC3339", dlq.calls[2].cause)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

func TestConsumer_DLQFailureSkipsCommit(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Offset: 9, Value: []byte("nope")}}}
	dlq := &fakeDLQ{err: errors.New("kafka down")}

	runConsumer(t, reader, &fakeHandler{}, dlq, 1)

	assert.Empty(t, reader.committed)
}

func TestParsePaymentCompleted_OptionalFields(t *testing.T) {
	event, _, err := parsePaymentCompleted([]byte(`{"event_id":"e","order_id":"o","amount":10}`))
	require.NoError(t, err)
	assert.Nil(t, event.PaidAt)
	assert.True(t, event.OccurredAt.IsZero())

	var parseErr *ParseError
	_, _, err = parsePaymentCompleted([]byte(`{"order_id":"o"}`))
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "event_id", parseErr.Field)
}
