package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // драйвер "pgx" для database/sql (нужен goose)
)

// Connect создаёт pgxpool и проверяет подключение через Ping
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	logger.Info("Connecting to PostgreSQL")

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	logger.Info("PostgreSQL connection established")
	return pool, nil
}

// ConnectWithRetry повторяет Connect с экспоненциальной паузой, пока не истечёт maxElapsed.
// В docker сервис стартует раньше, чем PostgreSQL начинает принимать соединения.
func ConnectWithRetry(ctx context.Context, dsn string, maxElapsed time.Duration, logger *zap.Logger) (*pgxpool.Pool, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxElapsed

	var pool *pgxpool.Pool
	operation := func() error {
		p, err := Connect(ctx, dsn, logger)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("PostgreSQL not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return pool, nil
}

// Migrate накатывает goose миграции из fsys (файлы *.sql в корне fsys)
func Migrate(ctx context.Context, dsn string, fsys fs.FS, logger *zap.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	for _, r := range results {
		logger.Info("migration applied",
			zap.String("source", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}
	return nil
}

// Readiness возвращает функцию для health check: ping пула с таймаутом 2s
func Readiness(pool *pgxpool.Pool) func() bool {
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(ctx) == nil
	}
}
