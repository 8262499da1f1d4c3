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

// NewRouter создаёт HTTP роутер Assistant Service. Все AI маршруты требуют сессию
func NewRouter(handler *Handler, sessions session.Store, readiness func() bool, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.Recoverer)
	router.Use(platformobservability.HTTPMiddleware("assistant", logger))
	router.Use(metrics.HTTPMiddleware("assistant"))

	router.Group(func(r chi.Router) {
		r.Use(session.Middleware(sessions, logger))

		r.Post("/ai/suggestions", handler.PostSuggestions)
		r.Post("/ai/translate", handler.PostTranslate)
		r.Post("/ai/speech", handler.PostSpeech)
		r.Post("/ai/enhance", handler.PostEnhance)
		r.Get("/credits", handler.GetCredits)
	})

	router.Get("/health", platformhealth.Handler(readiness))
	router.Handle("/metrics", metrics.Handler())

	return router
}
