package repository

import (
	"context"
	"time"
)

// Статусы записи inbox
const (
	InboxStatusPending = "pending"
	InboxStatusSent    = "sent"
)

// InboxEvent - ключ события и его положение в Kafka
type InboxEvent struct {
	EventID    string
	EventType  string
	OccurredAt time.Time
	OrderID    string
	Topic      string
	Partition  int
	Offset     int64
}

// InboxUpsertResult результат UpsertInboxPending: уже обработано (sent) или можно продолжать (pending)
type InboxUpsertResult struct {
	AlreadyProcessed bool // запись есть со статусом sent, не обрабатывать
	CanProcess       bool // запись pending (новая или retry), продолжать обработку
}

// NotificationRepository - inbox для дедупликации событий at-least-once доставки
//
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=NotificationRepository --dir=. --output=./mocks --outpkg=mocks
type NotificationRepository interface {
	// UpsertInboxPending создаёт запись pending, если её нет; sent -> AlreadyProcessed; pending -> CanProcess (retry)
	UpsertInboxPending(ctx context.Context, event InboxEvent) (InboxUpsertResult, error)
	// MarkInboxSent переводит запись в статус sent
	MarkInboxSent(ctx context.Context, eventID string) error
	// MarkInboxFailed сохраняет last_error (запись остаётся pending для retry)
	MarkInboxFailed(ctx context.Context, eventID string, errString string) error
}
