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
	httpapi "github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/api/http"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/client/chat"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/client/elevenlabs"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/config"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/repository/postgres"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/service"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/migrations"
)

const serviceName = "assistant"

// App содержит зависимости Assistant Service
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// Build собирает граф зависимостей Assistant Service
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

	logger.Info("Building Assistant service", zap.String("op", op), zap.String("http_addr", cfg.HTTPAddr))

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

	// PostgreSQL: баланс кредитов и процедура deduct_credits
	pool, err := platformpostgres.ConnectWithRetry(ctx, cfg.PostgresDSN, 30*time.Second, logger)
	if err != nil {
		return nil, err
	}
	shutdownMgr.Add("postgres_pool", platformshutdown.ClosePool(pool))

	if err := platformpostgres.Migrate(ctx, cfg.PostgresDSN, migrations.FS, logger); err != nil {
		shutdownMgr.Shutdown()
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	shutdownMgr.Add("redis", platformshutdown.CloseCloser(redisClient))
	sessions := session.NewRedisStore(redisClient, logger)

	// Внешние API: один вызов без ретраев
	httpClient := platformobservability.NewHTTPClient(serviceName, cfg.UpstreamTimeout)
	chatClient := chat.NewClient(logger, cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, httpClient)
	speechClient := elevenlabs.NewClient(logger, cfg.ElevenLabsBaseURL, cfg.ElevenLabsAPIKey, httpClient)

	assistantService := service.NewAssistantService(
		chatClient,
		speechClient,
		postgres.NewCreditRepository(pool),
		service.CreditCosts{
			Suggestion:  cfg.Credits.Suggestion,
			Translation: cfg.Credits.Translation,
			Speech:      cfg.Credits.Speech,
			Enhancement: cfg.Credits.Enhancement,
		},
		cfg.ElevenLabsVoiceID,
		logger,
	)

	router := httpapi.NewRouter(
		httpapi.NewHandler(assistantService, logger),
		sessions,
		platformpostgres.Readiness(pool),
		logger,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает HTTP сервер и ждёт сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting Assistant service", zap.String("addr", a.httpServer.Addr))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	a.shutdownMgr.Wait()

	a.wg.Wait()
	a.logger.Info("Assistant service stopped")
	return nil
}
