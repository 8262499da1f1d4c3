package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/repository"
)

// CreditRepository реализует repository.CreditRepository в памяти
// Повторяет поведение deduct_credits: проверка баланса и журнал под одной блокировкой
type CreditRepository struct {
	mu       sync.Mutex
	balances map[string]int
	journal  []repository.CreditDeduction
}

// NewCreditRepository создаёт in-memory репозиторий кредитов
func NewCreditRepository() *CreditRepository {
	return &CreditRepository{balances: make(map[string]int)}
}

// SetBalance задаёт баланс пользователя
func (r *CreditRepository) SetBalance(userID string, balance int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[userID] = balance
}

func (r *CreditRepository) Deduct(ctx context.Context, d repository.CreditDeduction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Credits <= 0 {
		return fmt.Errorf("credits must be positive, got %d", d.Credits)
	}
	balance, ok := r.balances[d.UserID]
	if !ok {
		return fmt.Errorf("deduct credits for %s: %w", d.UserID, repository.ErrNotFound)
	}
	if balance < d.Credits {
		return fmt.Errorf("deduct credits for %s: %w", d.UserID, repository.ErrInsufficientCredits)
	}

	r.balances[d.UserID] = balance - d.Credits
	r.journal = append(r.journal, d)
	return nil
}

func (r *CreditRepository) Balance(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance, ok := r.balances[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return balance, nil
}

// Journal возвращает копию журнала списаний
func (r *CreditRepository) Journal() []repository.CreditDeduction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]repository.CreditDeduction(nil), r.journal...)
}
