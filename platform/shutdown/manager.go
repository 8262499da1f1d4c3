package shutdown

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Manager управляет graceful shutdown сервиса
// Перехватывает SIGINT/SIGTERM и выполняет зарегистрированные функции в обратном порядке
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger
	funcs   []shutdownFunc
	mu      sync.Mutex
	once    sync.Once
}

type shutdownFunc struct {
	name string
	fn   func(context.Context) error
}

// New создаёт новый Manager с указанным таймаутом и logger
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		timeout: timeout,
		logger:  logger,
		funcs:   make([]shutdownFunc, 0),
	}
}

// Add регистрирует shutdown функцию с указанным именем
// Последняя зарегистрированная функция выполняется первой
func (m *Manager) Add(name string, fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append(m.funcs, shutdownFunc{name: name, fn: fn})
}

// Wait блокирует выполнение до получения SIGINT или SIGTERM, затем вызывает Shutdown
func (m *Manager) Wait() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	m.logger.Info("Received shutdown signal, starting graceful shutdown", zap.String("signal", sig.String()))

	m.Shutdown()
}

// Shutdown выполняет зарегистрированные функции, каждую со своим context.WithTimeout
// Повторный вызов ничего не делает
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.mu.Lock()
		funcs := make([]shutdownFunc, len(m.funcs))
		copy(funcs, m.funcs)
		m.mu.Unlock()

		for i := len(funcs) - 1; i >= 0; i-- {
			fn := funcs[i]
			m.logger.Info("Executing shutdown function", zap.String("name", fn.name))

			ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
			start := time.Now()
			err := fn.fn(ctx)
			cancel()

			duration := time.Since(start)
			if err != nil {
				m.logger.Error("Shutdown function failed",
					zap.String("name", fn.name),
					zap.Error(err),
					zap.Duration("duration", duration))
				continue
			}
			m.logger.Info("Shutdown function completed",
				zap.String("name", fn.name),
				zap.Duration("duration", duration))
		}

		m.logger.Info("Graceful shutdown completed")
	})
}

// ShutdownHTTPServer возвращает shutdown функцию для http.Server
func ShutdownHTTPServer(srv interface {
	Shutdown(context.Context) error
}) func(context.Context) error {
	return func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	}
}

// ClosePool возвращает shutdown функцию для закрытия connection pool
func ClosePool(pool interface {
	Close()
}) func(context.Context) error {
	return func(ctx context.Context) error {
		pool.Close()
		return nil
	}
}

// CloseCloser возвращает shutdown функцию для io.Closer (kafka reader/writer, redis client)
func CloseCloser(c io.Closer) func(context.Context) error {
	return func(ctx context.Context) error {
		return c.Close()
	}
}

// CancelFunc возвращает shutdown функцию, отменяющую контекст фоновых воркеров
func CancelFunc(cancel context.CancelFunc) func(context.Context) error {
	return func(ctx context.Context) error {
		cancel()
		return nil
	}
}
