package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
)

const transactionColumns = `id, order_id, amount::text, reference, access_code, email, status,
	channel, metadata, paid_at, created_at, updated_at`

// TransactionRepository реализует repository.TransactionRepository используя PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository создаёт новый PostgreSQL репозиторий транзакций
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// FindOrCreateForOrder обновляет последнюю транзакцию заказа или вставляет новую.
// SELECT и UPDATE/INSERT в одной транзакции БД, но без FOR UPDATE по несуществующей строке:
// параллельная инициализация нового заказа может дать две строки.
func (r *TransactionRepository) FindOrCreateForOrder(ctx context.Context, t repository.Transaction) (repository.Transaction, error) {
	metadata, err := marshalMetadata(t.Metadata)
	if err != nil {
		return repository.Transaction{}, err
	}

	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return repository.Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer dbTx.Rollback(ctx)

	var existingID string
	err = dbTx.QueryRow(ctx,
		`SELECT id FROM transactions
		 WHERE order_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 FOR UPDATE`,
		t.OrderID).Scan(&existingID)

	var row pgx.Row
	switch {
	case err == nil:
		row = dbTx.QueryRow(ctx,
			`UPDATE transactions
			 SET reference = $2, access_code = $3, amount = $4::numeric, email = $5, metadata = $6,
			     status = $7, channel = NULL, paid_at = NULL, updated_at = now()
			 WHERE id = $1
			 RETURNING `+transactionColumns,
			existingID, t.Reference, t.AccessCode, t.Amount.String(), t.Email, metadata,
			string(repository.TransactionPending))
	case errors.Is(err, pgx.ErrNoRows):
		id := t.ID
		if id == "" {
			id = uuid.NewString()
		}
		row = dbTx.QueryRow(ctx,
			`INSERT INTO transactions (id, order_id, amount, reference, access_code, email, status, metadata)
			 VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8)
			 RETURNING `+transactionColumns,
			id, t.OrderID, t.Amount.String(), t.Reference, t.AccessCode, t.Email,
			string(repository.TransactionPending), metadata)
	default:
		return repository.Transaction{}, fmt.Errorf("select transaction by order: %w", err)
	}

	saved, err := scanTransaction(row)
	if err != nil {
		return repository.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return repository.Transaction{}, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

// ApplyByReference - INSERT ... ON CONFLICT (reference) DO UPDATE без проверки версии.
// Для существующей строки order_id и email не трогаются, amount обновляется только ненулевой суммой.
func (r *TransactionRepository) ApplyByReference(ctx context.Context, upd repository.StatusUpdate) (repository.Transaction, error) {
	metadata, err := marshalMetadata(upd.Metadata)
	if err != nil {
		return repository.Transaction{}, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (id, order_id, amount, reference, email, status, channel, paid_at, metadata)
		 VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (reference) DO UPDATE SET
		   status     = EXCLUDED.status,
		   amount     = CASE WHEN EXCLUDED.amount > 0 THEN EXCLUDED.amount ELSE transactions.amount END,
		   channel    = EXCLUDED.channel,
		   paid_at    = EXCLUDED.paid_at,
		   metadata   = COALESCE(EXCLUDED.metadata, transactions.metadata),
		   updated_at = now()
		 RETURNING `+transactionColumns,
		uuid.NewString(), upd.OrderID, upd.Amount.String(), upd.Reference, upd.Email,
		string(upd.Status), upd.Channel, upd.PaidAt, metadata)

	saved, err := scanTransaction(row)
	if err != nil {
		return repository.Transaction{}, fmt.Errorf("upsert transaction %s: %w", upd.Reference, err)
	}
	return saved, nil
}

// GetByReference получает транзакцию по reference
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (repository.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE reference = $1`, reference)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Transaction{}, repository.ErrNotFound
		}
		return repository.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return t, nil
}

// ListByOrderID возвращает транзакции заказа, новые первыми
func (r *TransactionRepository) ListByOrderID(ctx context.Context, orderID string) ([]repository.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE order_id = $1 ORDER BY created_at DESC`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	out := make([]repository.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanTransaction(row pgx.Row) (repository.Transaction, error) {
	var (
		t      repository.Transaction
		amount string
		status string
	)
	if err := row.Scan(
		&t.ID, &t.OrderID, &amount, &t.Reference, &t.AccessCode, &t.Email, &status,
		&t.Channel, &t.Metadata, &t.PaidAt, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return repository.Transaction{}, err
	}

	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return repository.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Status = repository.TransactionStatus(status)
	return t, nil
}

// marshalMetadata: nil map -> SQL NULL (а не jsonb 'null'), иначе JSON
func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return b, nil
}
