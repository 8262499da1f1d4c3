package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	platformlogging "github.com/hubersonokou-collab/okousmarthub-sub002/platform/logging"
	platformobservability "github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	platformpostgres "github.com/hubersonokou-collab/okousmarthub-sub002/platform/postgres"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/session"
	platformshutdown "github.com/hubersonokou-collab/okousmarthub-sub002/platform/shutdown"
	httpapi "github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/api/http"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/client/paystack"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/config"
	orderkafka "github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/event/kafka"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository/postgres"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/migrations"
)

const serviceName = "order"

// App содержит все зависимости для запуска и корректного shutdown Order Service
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости Order Service
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"
	ctx := context.Background()

	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: serviceName,
		Env:         string(cfg.AppEnv),
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Building Order service", zap.String("op", op), zap.String("http_addr", cfg.HTTPAddr))

	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)

	// OpenTelemetry (no-op exporter при OTEL_ENABLED=false)
	otelCfg, err := platformobservability.LoadEnv(serviceName, string(cfg.AppEnv))
	if err != nil {
		return nil, fmt.Errorf("observability config: %w", err)
	}
	otelShutdown, err := platformobservability.Init(ctx, otelCfg)
	if err != nil {
		return nil, fmt.Errorf("observability init: %w", err)
	}
	shutdownMgr.Add("otel", otelShutdown)

	// PostgreSQL + миграции
	pool, err := platformpostgres.ConnectWithRetry(ctx, cfg.PostgresDSN, 30*time.Second, logger)
	if err != nil {
		return nil, err
	}
	shutdownMgr.Add("postgres_pool", platformshutdown.ClosePool(pool))

	if err := platformpostgres.Migrate(ctx, cfg.PostgresDSN, migrations.FS, logger); err != nil {
		shutdownMgr.Shutdown()
		return nil, err
	}

	readiness := platformpostgres.Readiness(pool)
	logger.Info("Readiness check enabled")

	// Redis для сессий (x-session-id -> user_id)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	shutdownMgr.Add("redis", platformshutdown.CloseCloser(redisClient))
	sessions := session.NewRedisStore(redisClient, logger)

	// Kafka publisher событий оплаты
	publisher := orderkafka.NewPaymentEventPublisher(
		logger,
		cfg.Kafka.Brokers,
		cfg.Kafka.PaymentCompletedTopic,
		cfg.PublishMaxRetries,
		cfg.PublishBackoff,
	)
	shutdownMgr.Add("kafka_publisher", platformshutdown.CloseCloser(publisher))

	// Paystack: один HTTP вызов без ретраев, таймаут из конфига
	paystackClient := paystack.NewClient(
		logger,
		cfg.PaystackBaseURL,
		cfg.PaystackSecretKey,
		platformobservability.NewHTTPClient(serviceName, cfg.UpstreamTimeout),
	)

	orderRepo := postgres.NewOrderRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)

	orderService := service.NewOrderService(orderRepo, txRepo, logger)
	paymentService := service.NewPaymentService(
		paystackClient,
		paystackClient,
		orderRepo,
		txRepo,
		publisher,
		cfg.PaystackCallbackURL,
		logger,
	)

	handler := httpapi.NewHandler(orderService, paymentService, logger)
	router := httpapi.NewRouter(handler, sessions, readiness, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	// HTTP сервер добавляется последним, значит останавливается первым
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting Order service", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Ожидаем сигнал и выполняем shutdown
	a.shutdownMgr.Wait()

	a.wg.Wait()
	a.logger.Info("Order service stopped")
	return nil
}
