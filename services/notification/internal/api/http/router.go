package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformhealth "github.com/hubersonokou-collab/okousmarthub-sub002/platform/health/http"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/metrics"
	platformobservability "github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
)

// NewRouter - служебный HTTP для Notification Service: /health (readiness БД) и /metrics
func NewRouter(readiness func() bool, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.Recoverer)
	router.Use(platformobservability.HTTPMiddleware("notification", logger))
	router.Use(metrics.HTTPMiddleware("notification"))

	router.Get("/health", platformhealth.Handler(readiness))
	router.Handle("/metrics", metrics.Handler())

	return router
}
