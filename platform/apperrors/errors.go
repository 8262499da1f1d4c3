package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation - не заполнено обязательное поле или неверное значение (400)
	ErrValidation = errors.New("validation error")
	// ErrUpstream - внешний API (Paystack, OpenAI, ElevenLabs) ответил не 2xx (502)
	ErrUpstream = errors.New("upstream error")
)

// ValidationError описывает, какое поле не прошло проверку
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Required возвращает ValidationError "<field> is required"
func Required(field string) error {
	return &ValidationError{Field: field, Message: field + " is required"}
}

// Invalid возвращает ValidationError с произвольным текстом
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// UpstreamError содержит статус внешнего API; StatusText попадает в сообщение клиенту
type UpstreamError struct {
	Service    string
	Status     int
	StatusText string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s error: %d %s", e.Service, e.Status, e.StatusText)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstream, e.Err}
	}
	return []error{ErrUpstream}
}
