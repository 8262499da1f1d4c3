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
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/client/paystack"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
)

// maxBodyBytes ограничивает тело запроса (включая webhook)
const maxBodyBytes = 1 << 20

// Handler содержит HTTP-обработчики Order Service
// Зависит от service слоя, но не знает о деталях реализации (Paystack, БД и т.д.)
type Handler struct {
	orderService   *service.OrderService
	paymentService *service.PaymentService
	logger         *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(orderService *service.OrderService, paymentService *service.PaymentService, logger *zap.Logger) *Handler {
	return &Handler{
		orderService:   orderService,
		paymentService: paymentService,
		logger:         logger,
	}
}

var errorStatuses = map[error]int{
	repository.ErrNotFound:       http.StatusNotFound,
	paystack.ErrInvalidSignature: http.StatusUnauthorized,
	session.ErrUnauthenticated:   http.StatusUnauthorized,
}

// writeError переводит ошибку в HTTP статус; 5xx пишутся в лог
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

// decodeJSON декодирует тело запроса; ошибка - ValidationError (400)
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.Invalid("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// callerFrom достаёт пользователя, положенного session.Middleware
func callerFrom(r *http.Request) (service.Caller, error) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		return service.Caller{}, session.ErrUnauthenticated
	}
	return service.Caller{UserID: userID}, nil
}
