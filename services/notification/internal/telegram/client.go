package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Sender определяет интерфейс для отправки сообщений
type Sender interface {
	Send(ctx context.Context, chatID, text string) error
}

// TelegramSender реализует отправку сообщений через Telegram Bot API
type TelegramSender struct {
	logger *zap.Logger
	apiURL string
	client *http.Client
}

// NewTelegramSender создаёт sender. baseURL обычно https://api.telegram.org,
// httpClient задаёт таймаут и трейсинг
func NewTelegramSender(logger *zap.Logger, baseURL, botToken string, httpClient *http.Client) *TelegramSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TelegramSender{
		logger: logger,
		apiURL: strings.TrimRight(baseURL, "/") + "/bot" + botToken,
		client: httpClient,
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Телеграм отвечает {"ok": true, "result": {...}} или {"ok": false, "description": "..."}
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send отправляет сообщение в Telegram
func (s *TelegramSender) Send(ctx context.Context, chatID, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// При не-200 читаем тело ответа для диагностики и не декодируем JSON
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("telegram API status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	s.logger.Debug("telegram message sent successfully", zap.String("chat_id", chatID))
	return nil
}

// NoOpSender - Sender, который только логирует (Telegram отключён)
type NoOpSender struct {
	logger *zap.Logger
}

// NewNoOpSender создаёт no-op sender
func NewNoOpSender(logger *zap.Logger) *NoOpSender {
	return &NoOpSender{logger: logger}
}

// Send ничего не отправляет
func (s *NoOpSender) Send(ctx context.Context, chatID, text string) error {
	s.logger.Info("no-op sender: message not sent",
		zap.String("chat_id", chatID),
		zap.String("text_preview", truncate(text, 50)),
	)
	return nil
}

// truncate обрезает строку до maxLen рун
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
