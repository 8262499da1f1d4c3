package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTelegramSender_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:ABC/sendMessage", r.URL.Path)

		var req sendMessageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "-1001", req.ChatID)
		assert.Equal(t, "Paiement confirmé", req.Text)

		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer srv.Close()

	sender := NewTelegramSender(zap.NewNop(), srv.URL+"/", "123:ABC", srv.Client())
	require.NoError(t, sender.Send(t.Context(), "-1001", "Paiement confirmé"))
}

func TestTelegramSender_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"bad status", http.StatusBadGateway, "upstream down", "telegram API status 502: upstream down"},
		{"not ok", http.StatusOK, `{"ok":false,"description":"Bad Request: chat not found"}`, "telegram API error: Bad Request: chat not found"},
		{"broken json", http.StatusOK, `{`, "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			sender := NewTelegramSender(zap.NewNop(), srv.URL, "token", srv.Client())
			err := sender.Send(t.Context(), "1", "text")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNoOpSender(t *testing.T) {
	assert.NoError(t, NewNoOpSender(zap.NewNop()).Send(t.Context(), "1", "Paiement confirmé pour la commande"))
	assert.Equal(t, "Paiem...", truncate("Paiement", 5))
	assert.Equal(t, "é", truncate("é", 5))
}
