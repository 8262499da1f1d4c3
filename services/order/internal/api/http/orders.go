package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
)

// CreateOrderRequest - тело POST /orders
type CreateOrderRequest struct {
	ServiceType string          `json:"service_type"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse - заказ в ответе API
type OrderResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	ServiceType  string                `json:"service_type"`
	Title        string                `json:"title"`
	Amount       float64               `json:"amount"`
	Status       string                `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
}

// TransactionResponse - платёжная попытка в ответе API
type TransactionResponse struct {
	Reference string     `json:"reference"`
	Amount    float64    `json:"amount"`
	Status    string     `json:"status"`
	Channel   *string    `json:"channel"`
	PaidAt    *time.Time `json:"paid_at"`
}

// PostOrders обрабатывает POST /orders - создание нового заказа
func (h *Handler) PostOrders(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), caller, service.CreateOrderInput{
		ServiceType: req.ServiceType,
		Title:       req.Title,
		Amount:      req.Amount,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusCreated, toOrderResponse(order, nil))
}

// GetOrder обрабатывает GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	details, err := h.orderService.GetOrder(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, toOrderResponse(details.Order, details.Transactions))
}

func toOrderResponse(order repository.Order, txs []repository.Transaction) OrderResponse {
	resp := OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		ServiceType: order.ServiceType,
		Title:       order.Title,
		Amount:      order.Amount.InexactFloat64(),
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
	}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			Reference: tx.Reference,
			Amount:    tx.Amount.InexactFloat64(),
			Status:    string(tx.Status),
			Channel:   tx.Channel,
			PaidAt:    tx.PaidAt,
		})
	}
	return resp
}
