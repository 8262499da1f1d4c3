package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformhealth "github.com/hubersonokou-collab/okousmarthub-sub002/platform/health/http"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/metrics"
	platformobservability "github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/session"
)

// NewRouter создаёт и настраивает HTTP роутер для Order Service
// readiness - функция для проверки готовности сервиса (например, проверка БД).
// Если readiness возвращает false, health endpoint вернёт 503 Service Unavailable.
// sessions резолвит x-session-id для /orders и /payments/initialize.
func NewRouter(handler *Handler, sessions session.Store, readiness func() bool, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.Recoverer)
	// Observability: trace context + span на каждый запрос, logger с trace_id в контексте
	router.Use(platformobservability.HTTPMiddleware("order", logger))
	router.Use(metrics.HTTPMiddleware("order"))

	requireSession := session.Middleware(sessions, logger)

	router.Route("/orders", func(r chi.Router) {
		r.Use(requireSession)
		r.Post("/", handler.PostOrders)
		r.Get("/{id}", handler.GetOrder)
	})

	router.Route("/payments", func(r chi.Router) {
		r.With(requireSession).Post("/initialize", handler.PostPaymentsInitialize)
		// verify и webhook без сессии: reference сам по себе секрет, webhook подписан
		r.Post("/verify", handler.PostPaymentsVerify)
		r.Get("/verify/{reference}", handler.GetPaymentsVerify)
		r.Post("/webhook", handler.PostPaymentsWebhook)
	})

	// Health и метрики без сессии
	router.Get("/health", platformhealth.Handler(readiness))
	router.Handle("/metrics", metrics.Handler())

	return router
}
