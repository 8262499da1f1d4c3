//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	platformpostgres "github.com/hubersonokou-collab/okousmarthub-sub002/platform/postgres"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/repository"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/migrations"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("assistant"),
		tcpostgres.WithUsername("assistant_user"),
		tcpostgres.WithPassword("assistant_password"),
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

func seedBalance(t *testing.T, pool *pgxpool.Pool, userID string, balance int) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO user_credits (user_id, balance) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET balance = EXCLUDED.balance`, userID, balance)
	require.NoError(t, err)
}

func TestCreditRepository_Integration(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t)
	repo := NewCreditRepository(pool)

	t.Run("Deduct decreases balance and writes journal", func(t *testing.T) {
		seedBalance(t, pool, "user-1", 5)

		err := repo.Deduct(ctx, repository.CreditDeduction{
			UserID:      "user-1",
			Credits:     2,
			ActionType:  repository.ActionSpeech,
			Description: "Synthèse vocale",
		})
		require.NoError(t, err)

		balance, err := repo.Balance(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 3, balance)

		var amount int
		var action string
		err = pool.QueryRow(ctx,
			`SELECT amount, action_type FROM credit_transactions WHERE user_id = $1`, "user-1").Scan(&amount, &action)
		require.NoError(t, err)
		assert.Equal(t, -2, amount)
		assert.Equal(t, repository.ActionSpeech, action)
	})

	t.Run("Insufficient credits", func(t *testing.T) {
		seedBalance(t, pool, "user-2", 1)

		err := repo.Deduct(ctx, repository.CreditDeduction{UserID: "user-2", Credits: 2, ActionType: repository.ActionSpeech})
		assert.ErrorIs(t, err, repository.ErrInsufficientCredits)

		balance, err := repo.Balance(ctx, "user-2")
		require.NoError(t, err)
		assert.Equal(t, 1, balance)
	})

	t.Run("Unknown user", func(t *testing.T) {
		err := repo.Deduct(ctx, repository.CreditDeduction{UserID: "ghost", Credits: 1, ActionType: repository.ActionTranslation})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = repo.Balance(ctx, "ghost")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Concurrent deductions never go negative", func(t *testing.T) {
		seedBalance(t, pool, "user-3", 3)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.Deduct(ctx, repository.CreditDeduction{UserID: "user-3", Credits: 1, ActionType: repository.ActionTranslation})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 3, succeeded)
		balance, err := repo.Balance(ctx, "user-3")
		require.NoError(t, err)
		assert.Equal(t, 0, balance)
	})
}
