package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/session"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/repository"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/service"
)

// maxBodyBytes - тексты для перевода/озвучки бывают длинными, но не больше этого
const maxBodyBytes = 1 << 20

// Handler содержит HTTP-обработчики Assistant Service
type Handler struct {
	assistant *service.AssistantService
	logger    *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(assistant *service.AssistantService, logger *zap.Logger) *Handler {
	return &Handler{assistant: assistant, logger: logger}
}

var errorStatuses = map[error]int{
	repository.ErrNotFound:     http.StatusNotFound,
	session.ErrUnauthenticated: http.StatusUnauthorized,
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err, errorStatuses)
	logger := observability.LoggerFromContext(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err), zap.Int("status", status))
	} else {
		logger.Info("request rejected", zap.Error(err), zap.Int("status", status))
	}
	apperrors.WriteError(w, status, err)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return apperrors.Invalid("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

func callerFrom(r *http.Request) (service.Caller, error) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		return service.Caller{}, session.ErrUnauthenticated
	}
	return service.Caller{UserID: userID}, nil
}
