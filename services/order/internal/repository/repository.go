package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound возвращается, когда запись не найдена в хранилище
var ErrNotFound = errors.New("not found")

// Статусы заказа. Здесь двигается только created -> in_progress
const (
	OrderStatusCreated    = "created"
	OrderStatusInProgress = "in_progress"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Типы услуг
const (
	ServiceTypeReport = "report"
	ServiceTypeThesis = "thesis"
	ServiceTypeCV     = "cv"
	ServiceTypeTravel = "travel"
)

// Order - заказ документа/услуги. Отвечает за статус исполнения
type Order struct {
	ID          string
	UserID      string
	ServiceType string
	Title       string
	Amount      decimal.Decimal
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TransactionStatus - статус платежа
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction - попытка оплаты у Paystack, ключ reference
type Transaction struct {
	ID         string
	OrderID    string
	Amount     decimal.Decimal
	Reference  string
	AccessCode string
	Email      string
	Status     TransactionStatus
	Channel    *string
	Metadata   map[string]any
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StatusUpdate - то, что пишет reconciler по reference.
// OrderID и Email используются только если строки с таким reference ещё нет.
// Amount больше нуля перезаписывает сумму и в существующей строке.
type StatusUpdate struct {
	Reference string
	OrderID   string
	Amount    decimal.Decimal
	Email     string
	Status    TransactionStatus
	Channel   *string
	PaidAt    *time.Time
	Metadata  map[string]any
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=OrderRepository --dir=. --output=./mocks --outpkg=mocks

// OrderRepository определяет интерфейс для работы с хранилищем заказов
type OrderRepository interface {
	Create(ctx context.Context, order Order) error

	// GetByID возвращает ErrNotFound, если заказа нет
	GetByID(ctx context.Context, id string) (Order, error)

	// AdvanceToInProgress переводит заказ created -> in_progress.
	// advanced=false, если заказа нет или он уже не в created (повторная доставка).
	AdvanceToInProgress(ctx context.Context, id string) (order Order, advanced bool, err error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=TransactionRepository --dir=. --output=./mocks --outpkg=mocks

// TransactionRepository определяет интерфейс для работы с транзакциями
type TransactionRepository interface {
	// FindOrCreateForOrder обновляет последнюю транзакцию заказа на месте
	// (новый reference/access_code, status=pending, channel и paid_at сбрасываются)
	// или создаёт новую. Блокировок нет: два параллельных вызова для нового заказа
	// могут создать две строки, reconciler это переживает, так как работает по reference.
	FindOrCreateForOrder(ctx context.Context, tx Transaction) (Transaction, error)

	// ApplyByReference - upsert по reference, последняя запись выигрывает
	ApplyByReference(ctx context.Context, upd StatusUpdate) (Transaction, error)

	// GetByReference возвращает ErrNotFound, если транзакции нет
	GetByReference(ctx context.Context, reference string) (Transaction, error)

	// ListByOrderID возвращает транзакции заказа, новые первыми
	ListByOrderID(ctx context.Context, orderID string) ([]Transaction, error)
}
