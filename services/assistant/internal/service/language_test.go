package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/service"
)

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"fr", "French"},
		{"EN", "English"},
		{" sw ", "Swahili"},
		{"zh", "Chinese"},
		{"ln", "ln"},
		{"pt-BR", "pt-BR"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, service.LanguageName(tt.code))
		})
	}
}
