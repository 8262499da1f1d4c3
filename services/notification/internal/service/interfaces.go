package service

import (
	"time"
)

// PaymentCompletedEvent - событие успешной оплаты заказа (входящее из Kafka).
// Поля используются шаблоном payment_completed.tmpl.
type PaymentCompletedEvent struct {
	EventID      string
	EventType    string
	EventVersion int
	OccurredAt   time.Time
	OrderID      string
	UserID       string
	Reference    string
	Amount       int64 // минорные единицы
	Channel      string
	PaidAt       *time.Time
}
