package paystack

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// transactionData - data из verify и из webhook charge.* (формат общий)
type transactionData struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    int64           `json:"amount"`
	Channel   string          `json:"channel"`
	PaidAt    *time.Time      `json:"paid_at"`
	Metadata  json.RawMessage `json:"metadata"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

type webhookPayload struct {
	Event string          `json:"event"`
	Data  transactionData `json:"data"`
}

// toCharge переводит ответ Paystack в доменный Charge.
// metadata у Paystack бывает объектом, пустой строкой или JSON-строкой с объектом.
func (d transactionData) toCharge() service.Charge {
	metadata := decodeMetadata(d.Metadata)

	orderID, _ := metadata["order_id"].(string)

	return service.Charge{
		Reference:   d.Reference,
		Status:      d.Status,
		AmountMinor: d.Amount,
		Channel:     d.Channel,
		PaidAt:      d.PaidAt,
		OrderID:     orderID,
		Email:       d.Customer.Email,
		Metadata:    metadata,
	}
}

func decodeMetadata(raw json.RawMessage) map[string]any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return nil
		}
		raw = []byte(s)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
