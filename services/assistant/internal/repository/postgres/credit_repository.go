package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/repository"
)

// Коды ошибок, которые поднимает deduct_credits
const (
	pgRaiseException = "P0001"
	pgNoDataFound    = "P0002"
)

// CreditRepository реализует repository.CreditRepository поверх процедуры deduct_credits
type CreditRepository struct {
	pool *pgxpool.Pool
}

// NewCreditRepository создаёт PostgreSQL репозиторий кредитов
func NewCreditRepository(pool *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{pool: pool}
}

// Deduct вызывает SELECT deduct_credits($1, $2, $3, $4)
func (r *CreditRepository) Deduct(ctx context.Context, d repository.CreditDeduction) error {
	_, err := r.pool.Exec(ctx, `SELECT deduct_credits($1, $2, $3, $4)`,
		d.UserID, d.Credits, d.ActionType, d.Description)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgNoDataFound:
			return fmt.Errorf("deduct credits for %s: %w", d.UserID, repository.ErrNotFound)
		case pgRaiseException:
			return fmt.Errorf("deduct credits for %s: %w: %s", d.UserID, repository.ErrInsufficientCredits, pgErr.Message)
		}
	}
	return fmt.Errorf("deduct credits: %w", err)
}

// Balance возвращает текущий баланс
func (r *CreditRepository) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := r.pool.QueryRow(ctx, `SELECT balance FROM user_credits WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("select balance: %w", err)
	}
	return balance, nil
}
