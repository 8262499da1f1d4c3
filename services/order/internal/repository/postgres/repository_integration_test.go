//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	platformpostgres "github.com/hubersonokou-collab/okousmarthub-sub002/platform/postgres"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/migrations"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	// Поднимаем PostgreSQL контейнер через testcontainers
	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("orders"),
		tcpostgres.WithUsername("order_user"),
		tcpostgres.WithPassword("order_password"),
		// postgres перезапускается после init-скриптов, ждём второе сообщение
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Контейнер может ещё не принимать соединения
	pool, err := platformpostgres.ConnectWithRetry(ctx, dsn, 30*time.Second, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, platformpostgres.Migrate(ctx, dsn, migrations.FS, zap.NewNop()))
	return pool
}

func TestRepositories_Integration(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t)

	orders := NewOrderRepository(pool)
	txs := NewTransactionRepository(pool)

	orderID := "3f1f6a7e-5a57-4a4e-9b7e-0c1f0a0b1c2d"

	t.Run("Create and GetByID", func(t *testing.T) {
		err := orders.Create(ctx, repository.Order{
			ID:          orderID,
			UserID:      "user-1",
			ServiceType: repository.ServiceTypeThesis,
			Title:       "Mémoire de master",
			Amount:      decimal.RequireFromString("1500.50"),
		})
		require.NoError(t, err)

		got, err := orders.GetByID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, repository.OrderStatusCreated, got.Status)
		assert.True(t, decimal.RequireFromString("1500.5").Equal(got.Amount))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		_, err := orders.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("non-UUID id is not found", func(t *testing.T) {
		_, err := orders.GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, repository.ErrNotFound)

		_, advanced, err := orders.AdvanceToInProgress(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.False(t, advanced)
	})

	t.Run("FindOrCreateForOrder keeps one row", func(t *testing.T) {
		first, err := txs.FindOrCreateForOrder(ctx, repository.Transaction{
			OrderID: orderID, Reference: "ref-1", AccessCode: "ac-1",
			Amount: decimal.RequireFromString("1500.50"), Email: "client@example.com",
			Metadata: map[string]any{"order_id": orderID},
		})
		require.NoError(t, err)

		second, err := txs.FindOrCreateForOrder(ctx, repository.Transaction{
			OrderID: orderID, Reference: "ref-2", AccessCode: "ac-2",
			Amount: decimal.RequireFromString("1500.50"), Email: "client@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		list, err := txs.ListByOrderID(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "ref-2", list[0].Reference)
		assert.Equal(t, repository.TransactionPending, list[0].Status)
	})

	t.Run("ApplyByReference last write wins", func(t *testing.T) {
		channel := "card"
		paidAt := time.Now().UTC().Truncate(time.Second)

		_, err := txs.ApplyByReference(ctx, repository.StatusUpdate{
			Reference: "ref-2", Status: repository.TransactionCompleted, Channel: &channel, PaidAt: &paidAt,
		})
		require.NoError(t, err)

		got, err := txs.ApplyByReference(ctx, repository.StatusUpdate{
			Reference: "ref-2", Status: repository.TransactionFailed,
		})
		require.NoError(t, err)
		assert.Equal(t, repository.TransactionFailed, got.Status)
		assert.Nil(t, got.Channel)
		assert.Equal(t, orderID, got.OrderID)
		assert.Equal(t, orderID, got.Metadata["order_id"])
		// update без суммы не обнуляет сохранённую
		assert.True(t, decimal.RequireFromString("1500.5").Equal(got.Amount))
	})

	t.Run("ApplyByReference refreshes amount from provider", func(t *testing.T) {
		got, err := txs.ApplyByReference(ctx, repository.StatusUpdate{
			Reference: "ref-2", Amount: decimal.RequireFromString("1499.99"), Status: repository.TransactionCompleted,
		})
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1499.99").Equal(got.Amount))
		assert.Equal(t, orderID, got.OrderID)
		assert.Equal(t, "client@example.com", got.Email)
	})

	t.Run("ApplyByReference inserts unknown reference", func(t *testing.T) {
		got, err := txs.ApplyByReference(ctx, repository.StatusUpdate{
			Reference: "ref-unknown", OrderID: "other-order",
			Amount: decimal.NewFromInt(25), Email: "x@y.z", Status: repository.TransactionCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, "other-order", got.OrderID)

		fetched, err := txs.GetByReference(ctx, "ref-unknown")
		require.NoError(t, err)
		assert.Equal(t, got.ID, fetched.ID)
	})

	t.Run("AdvanceToInProgress once under concurrency", func(t *testing.T) {
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			advanced int
		)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok, err := orders.AdvanceToInProgress(ctx, orderID)
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					advanced++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, advanced)
	})
}
