package app

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	platformlogging "github.com/hubersonokou-collab/okousmarthub-sub002/platform/logging"
	platformobservability "github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	platformpostgres "github.com/hubersonokou-collab/okousmarthub-sub002/platform/postgres"
	platformshutdown "github.com/hubersonokou-collab/okousmarthub-sub002/platform/shutdown"
	httpapi "github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/api/http"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/config"
	eventkafka "github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/event/kafka"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/repository/postgres"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/service"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/telegram"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/templates"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/migrations"
)

const serviceName = "notification"

// App содержит все зависимости для запуска и корректного shutdown Notification Service
type App struct {
	logger          *zap.Logger
	httpServer      *http.Server
	paymentConsumer *eventkafka.PaymentCompletedConsumer
	shutdownMgr     *platformshutdown.Manager
	wg              sync.WaitGroup
}

// Build создаёт и настраивает все зависимости Notification Service
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

	logger.Info("Building Notification service",
		zap.String("op", op),
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("payment_topic", cfg.Kafka.PaymentCompletedTopic),
		zap.Int("retry_max_attempts", cfg.RetryMaxAttempts),
		zap.Duration("retry_backoff_base", cfg.RetryBackoffBase),
	)

	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)

	otelCfg, err := platformobservability.LoadEnv(serviceName, string(cfg.AppEnv))
	if err != nil {
		return nil, fmt.Errorf("observability config: %w", err)
	}
	otelShutdown, err := platformobservability.Init(ctx, otelCfg)
	if err != nil {
		return nil, fmt.Errorf("observability init: %w", err)
	}
	shutdownMgr.Add("otel", otelShutdown)

	// PostgreSQL + миграции inbox
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

	var telegramSender telegram.Sender
	if cfg.Telegram.Enabled {
		telegramSender = telegram.NewTelegramSender(
			logger,
			cfg.Telegram.APIURL,
			cfg.Telegram.BotToken,
			platformobservability.NewHTTPClient(serviceName, cfg.Telegram.Timeout),
		)
		logger.Info("Telegram sender enabled", zap.String("chat_id", cfg.Telegram.ChatID))
	} else {
		telegramSender = telegram.NewNoOpSender(logger)
		logger.Warn("Telegram disabled, using no-op sender")
	}

	var templateFS fs.FS = templates.DefaultFS
	if cfg.TemplatesDir != "" {
		templateFS = os.DirFS(cfg.TemplatesDir)
	}
	renderer, err := templates.NewRenderer(logger, templateFS)
	if err != nil {
		shutdownMgr.Shutdown()
		return nil, fmt.Errorf("failed to create template renderer: %w", err)
	}

	notificationService := service.NewNotificationService(
		logger,
		postgres.NewRepository(pool),
		telegramSender,
		renderer,
		cfg.Telegram.ChatID,
	)

	dlqPublisher := eventkafka.NewDLQPublisher(logger, cfg.Kafka.Brokers, cfg.Kafka.DLQTopic)
	shutdownMgr.Add("dlq_publisher", platformshutdown.CloseCloser(dlqPublisher))

	paymentConsumer := eventkafka.NewPaymentCompletedConsumer(
		logger,
		cfg.Kafka.Brokers,
		cfg.GroupID,
		cfg.Kafka.PaymentCompletedTopic,
		notificationService,
		dlqPublisher,
		cfg.RetryMaxAttempts,
		cfg.RetryBackoffBase,
	)
	shutdownMgr.Add("kafka_payment_consumer", platformshutdown.CloseCloser(paymentConsumer))

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(readiness, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:          logger,
		httpServer:      httpServer,
		paymentConsumer: paymentConsumer,
		shutdownMgr:     shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting Notification service", zap.String("addr", a.httpServer.Addr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.paymentConsumer.Start(ctx); err != nil {
			a.logger.Error("kafka payment consumer error", zap.Error(err))
		}
	}()
	a.logger.Info("Kafka consumer started")

	a.shutdownMgr.Wait()

	// Отменяем контекст consumer
	cancel()
	a.wg.Wait()

	a.logger.Info("Notification service stopped")
	return nil
}
