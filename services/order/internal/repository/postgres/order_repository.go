package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
)

// pgInvalidTextRepresentation - id заказа не парсится как UUID
const pgInvalidTextRepresentation = "22P02"

const orderColumns = `id, user_id, service_type, title, amount::text, status, created_at, updated_at`

// OrderRepository реализует repository.OrderRepository используя PostgreSQL
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository создаёт новый PostgreSQL репозиторий заказов
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create сохраняет новый заказ; created_at/updated_at ставит БД
func (r *OrderRepository) Create(ctx context.Context, order repository.Order) error {
	status := order.Status
	if status == "" {
		status = repository.OrderStatusCreated
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO orders (id, user_id, service_type, title, amount, status)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6)`,
		order.ID, order.UserID, order.ServiceType, order.Title, order.Amount.String(), status)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID получает заказ по ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (repository.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return repository.Order{}, repository.ErrNotFound
		}
		return repository.Order{}, fmt.Errorf("select order: %w", err)
	}
	return order, nil
}

// AdvanceToInProgress - условный UPDATE: строка меняется только из статуса created,
// поэтому повторные вызовы (webhook + verify) не дают второго перехода.
// id не в формате UUID считается отсутствующим заказом.
func (r *OrderRepository) AdvanceToInProgress(ctx context.Context, id string) (repository.Order, bool, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE orders
		 SET status = $2, updated_at = now()
		 WHERE id = $1 AND status = $3
		 RETURNING `+orderColumns,
		id, repository.OrderStatusInProgress, repository.OrderStatusCreated)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return repository.Order{}, false, nil
		}
		return repository.Order{}, false, fmt.Errorf("advance order: %w", err)
	}
	return order, true, nil
}

func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation
}

func scanOrder(row pgx.Row) (repository.Order, error) {
	var (
		order  repository.Order
		amount string
	)
	if err := row.Scan(
		&order.ID, &order.UserID, &order.ServiceType, &order.Title,
		&amount, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return repository.Order{}, err
	}

	var err error
	if order.Amount, err = decimal.NewFromString(amount); err != nil {
		return repository.Order{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return order, nil
}
