package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{amount: "1500.5", want: 150050},
		{amount: "1500", want: 150000},
		{amount: "19.999", want: 2000},
		{amount: "0.005", want: 1},
		{amount: "0.004", want: 0},
		{amount: "25000.125", want: 2500013},
		{amount: "9999999999.99", want: 999999999999},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, service.ToMinorUnits(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, decimal.RequireFromString("1500.50").Equal(service.FromMinorUnits(150050)))
	assert.True(t, decimal.Zero.Equal(service.FromMinorUnits(0)))
}

func TestMapProviderStatus(t *testing.T) {
	tests := map[string]string{
		"success":    "completed",
		"SUCCESS":    "completed",
		"failed":     "failed",
		"abandoned":  "failed",
		"reversed":   "failed",
		"ongoing":    "pending",
		"pending":    "pending",
		"processing": "pending",
		"queued":     "pending",
		"":           "pending",
	}

	for in, want := range tests {
		assert.Equal(t, want, string(service.MapProviderStatus(in)), "provider status %q", in)
	}
}
