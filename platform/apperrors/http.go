package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// StatusCode переводит ошибку в HTTP статус. extra проверяется первым:
// сервисы добавляют туда свои sentinel ошибки (not found, unauthenticated и т.д.).
func StatusCode(err error, extra map[error]int) int {
	for target, code := range extra {
		if errors.Is(err, target) {
			return code
		}
	}

	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON пишет v как JSON с заданным статусом
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError пишет {"success": false, "error": msg}. Для 500 текст ошибки наружу не отдаётся.
func WriteError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	WriteJSON(w, status, map[string]any{"success": false, "error": msg})
}
