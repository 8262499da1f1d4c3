package main

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	eventChargeSuccess = "charge.success"
	eventChargeFailed  = "charge.failed"
)

type eventOptions struct {
	Event       string
	Reference   string
	OrderID     string
	AmountMinor int64
	Email       string
	Channel     string
}

type replayEvent struct {
	Event string     `json:"event"`
	Data  replayData `json:"data"`
}

type replayData struct {
	Reference string         `json:"reference"`
	Status    string         `json:"status"`
	Amount    int64          `json:"amount"`
	Channel   string         `json:"channel,omitempty"`
	PaidAt    *time.Time     `json:"paid_at,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Customer  replayCustomer `json:"customer"`
}

type replayCustomer struct {
	Email string `json:"email"`
}

// buildEvent собирает тело в том же виде, в каком его присылает Paystack
func buildEvent(opts eventOptions, now time.Time) ([]byte, error) {
	if opts.Reference == "" {
		return nil, fmt.Errorf("reference is required")
	}

	data := replayData{
		Reference: opts.Reference,
		Amount:    opts.AmountMinor,
		Customer:  replayCustomer{Email: opts.Email},
	}

	switch opts.Event {
	case eventChargeSuccess:
		paidAt := now.UTC()
		data.Status = "success"
		data.Channel = opts.Channel
		data.PaidAt = &paidAt
	case eventChargeFailed:
		data.Status = "failed"
	default:
		return nil, fmt.Errorf("unsupported event %q (must be %s or %s)", opts.Event, eventChargeSuccess, eventChargeFailed)
	}

	if opts.OrderID != "" {
		data.Metadata = map[string]any{"order_id": opts.OrderID}
	}

	return json.Marshal(replayEvent{Event: opts.Event, Data: data})
}
