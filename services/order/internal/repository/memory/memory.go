package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
)

// OrderRepository реализует repository.OrderRepository в памяти
// Используется в тестах и для локального запуска без БД
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]repository.Order
}

// NewOrderRepository создаёт новый in-memory репозиторий заказов
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]repository.Order),
	}
}

func (r *OrderRepository) Create(ctx context.Context, order repository.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = repository.OrderStatusCreated
	}

	r.orders[order.ID] = order
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (repository.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return repository.Order{}, repository.ErrNotFound
	}
	return order, nil
}

func (r *OrderRepository) AdvanceToInProgress(ctx context.Context, id string) (repository.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.Status != repository.OrderStatusCreated {
		return order, false, nil
	}

	order.Status = repository.OrderStatusInProgress
	order.UpdatedAt = time.Now().UTC()
	r.orders[id] = order
	return order, true, nil
}

// TransactionRepository реализует repository.TransactionRepository в памяти
// с той же семантикой, что и Postgres: find-or-create по заказу, upsert по reference
type TransactionRepository struct {
	mu    sync.Mutex
	byRef map[string]repository.Transaction
}

// NewTransactionRepository создаёт новый in-memory репозиторий транзакций
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		byRef: make(map[string]repository.Transaction),
	}
}

func (r *TransactionRepository) FindOrCreateForOrder(ctx context.Context, tx repository.Transaction) (repository.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	if existing, ok := r.latestForOrderLocked(tx.OrderID); ok {
		delete(r.byRef, existing.Reference)
		existing.Reference = tx.Reference
		existing.AccessCode = tx.AccessCode
		existing.Amount = tx.Amount
		existing.Email = tx.Email
		existing.Metadata = maps.Clone(tx.Metadata)
		existing.Status = repository.TransactionPending
		existing.Channel = nil
		existing.PaidAt = nil
		existing.UpdatedAt = now
		r.byRef[existing.Reference] = existing
		return existing, nil
	}

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.Status = repository.TransactionPending
	tx.Channel = nil
	tx.PaidAt = nil
	tx.Metadata = maps.Clone(tx.Metadata)
	tx.CreatedAt = now
	tx.UpdatedAt = now
	r.byRef[tx.Reference] = tx
	return tx, nil
}

func (r *TransactionRepository) ApplyByReference(ctx context.Context, upd repository.StatusUpdate) (repository.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	tx, ok := r.byRef[upd.Reference]
	if !ok {
		tx = repository.Transaction{
			ID:        uuid.NewString(),
			OrderID:   upd.OrderID,
			Amount:    upd.Amount,
			Reference: upd.Reference,
			Email:     upd.Email,
			CreatedAt: now,
		}
	}

	tx.Status = upd.Status
	if upd.Amount.IsPositive() {
		tx.Amount = upd.Amount
	}
	tx.Channel = upd.Channel
	tx.PaidAt = upd.PaidAt
	if upd.Metadata != nil {
		tx.Metadata = maps.Clone(upd.Metadata)
	}
	tx.UpdatedAt = now

	r.byRef[tx.Reference] = tx
	return tx, nil
}

func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (repository.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.byRef[reference]
	if !ok {
		return repository.Transaction{}, repository.ErrNotFound
	}
	return tx, nil
}

func (r *TransactionRepository) ListByOrderID(ctx context.Context, orderID string) ([]repository.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.listForOrderLocked(orderID), nil
}

func (r *TransactionRepository) listForOrderLocked(orderID string) []repository.Transaction {
	out := make([]repository.Transaction, 0)
	for _, tx := range r.byRef {
		if tx.OrderID == orderID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *TransactionRepository) latestForOrderLocked(orderID string) (repository.Transaction, bool) {
	list := r.listForOrderLocked(orderID)
	if len(list) == 0 {
		return repository.Transaction{}, false
	}
	return list[0], true
}
