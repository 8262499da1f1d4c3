package service

import (
	"context"
	"time"
)

// InitializeRequest - запрос на создание платежа у провайдера (сумма в минорных единицах)
type InitializeRequest struct {
	Email       string
	AmountMinor int64
	CallbackURL string
	Metadata    map[string]any
}

// InitializeResult - ссылка на hosted checkout провайдера
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// Charge - состояние платежа, как его видит провайдер
type Charge struct {
	Reference   string
	Status      string // статус провайдера: success, failed, abandoned, ongoing ...
	AmountMinor int64
	Channel     string
	PaidAt      *time.Time
	OrderID     string // из metadata.order_id
	Email       string
	Metadata    map[string]any
}

// WebhookEvent - проверенное (подпись сошлась) событие провайдера
type WebhookEvent struct {
	Kind   string
	Charge Charge
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=PaymentProvider --dir=. --output=./mocks --outpkg=mocks

// PaymentProvider определяет интерфейс платёжного провайдера (Paystack)
// Использует доменные типы, а не JSON провайдера
type PaymentProvider interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (Charge, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=WebhookDecoder --dir=. --output=./mocks --outpkg=mocks

// WebhookDecoder проверяет подпись по сырому телу и только потом разбирает событие
type WebhookDecoder interface {
	DecodeWebhook(body []byte, signature string) (WebhookEvent, error)
}

// PaymentCompletedEvent публикуется, когда оплата перевела заказ в in_progress
type PaymentCompletedEvent struct {
	OrderID     string
	UserID      string
	Reference   string
	AmountMinor int64
	Channel     string
	PaidAt      *time.Time
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=PaymentEventPublisher --dir=. --output=./mocks --outpkg=mocks

// PaymentEventPublisher определяет интерфейс для публикации событий оплаты
type PaymentEventPublisher interface {
	PublishPaymentCompleted(ctx context.Context, event PaymentCompletedEvent) error
}
