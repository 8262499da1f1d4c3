package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/client/paystack"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
)

// InitializePaymentRequest - тело POST /payments/initialize
type InitializePaymentRequest struct {
	OrderID     string          `json:"orderId"`
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	CallbackURL string          `json:"callbackUrl,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// InitializePaymentResponse - ответ POST /payments/initialize
type InitializePaymentResponse struct {
	Success          bool     `json:"success"`
	AuthorizationURL string   `json:"authorization_url"`
	AccessCode       string   `json:"access_code"`
	Reference        string   `json:"reference"`
	Warnings         []string `json:"warnings,omitempty"`
}

// VerifyPaymentRequest - тело POST /payments/verify
type VerifyPaymentRequest struct {
	Reference string `json:"reference"`
}

// VerifyPaymentResponse - ответ verify, amount в основных единицах
type VerifyPaymentResponse struct {
	Success  bool       `json:"success"`
	Status   string     `json:"status"`
	Amount   float64    `json:"amount"`
	Channel  *string    `json:"channel"`
	PaidAt   *time.Time `json:"paid_at"`
	OrderID  string     `json:"order_id"`
	Warnings []string   `json:"warnings,omitempty"`
}

// PostPaymentsInitialize обрабатывает POST /payments/initialize
func (h *Handler) PostPaymentsInitialize(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req InitializePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.paymentService.InitiateCheckout(r.Context(), caller, service.InitiateCheckoutInput{
		OrderID:     req.OrderID,
		Email:       req.Email,
		Amount:      req.Amount,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, InitializePaymentResponse{
		Success:          true,
		AuthorizationURL: out.AuthorizationURL,
		AccessCode:       out.AccessCode,
		Reference:        out.Reference,
		Warnings:         out.Warnings,
	})
}

// PostPaymentsVerify обрабатывает POST /payments/verify
func (h *Handler) PostPaymentsVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.verify(w, r, req.Reference)
}

// GetPaymentsVerify обрабатывает GET /payments/verify/{reference} (возврат браузера с checkout)
func (h *Handler) GetPaymentsVerify(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, chi.URLParam(r, "reference"))
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request, reference string) {
	res, err := h.paymentService.VerifyPayment(r.Context(), reference)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	tx := res.Transaction
	apperrors.WriteJSON(w, http.StatusOK, VerifyPaymentResponse{
		Success:  true,
		Status:   string(tx.Status),
		Amount:   res.ProviderAmount.InexactFloat64(),
		Channel:  tx.Channel,
		PaidAt:   tx.PaidAt,
		OrderID:  tx.OrderID,
		Warnings: res.Warnings,
	})
}

// PostPaymentsWebhook обрабатывает POST /payments/webhook.
// Подпись проверяется по сырому телу; после валидной подписи всегда 200 {"received": true}.
func (h *Handler) PostPaymentsWebhook(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerFromContext(r.Context(), h.logger)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, apperrors.Invalid("body", "cannot read body"))
		return
	}

	outcome, err := h.paymentService.HandleWebhook(r.Context(), body, r.Header.Get(paystack.HeaderSignature))
	if err != nil {
		if errors.Is(err, paystack.ErrInvalidSignature) {
			logger.Warn("webhook rejected: invalid signature", zap.String("remote_addr", r.RemoteAddr))
		}
		h.writeError(w, r, err)
		return
	}

	if len(outcome.Result.Warnings) > 0 {
		logger.Error("webhook acknowledged with unfinished side effects",
			zap.String("event", outcome.Event),
			zap.String("reference", outcome.Result.Transaction.Reference),
			zap.Strings("warnings", outcome.Result.Warnings),
		)
	}

	apperrors.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
