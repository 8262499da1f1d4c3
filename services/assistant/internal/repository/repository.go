package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound - у пользователя нет строки в user_credits
	ErrNotFound = errors.New("not found")
	// ErrInsufficientCredits - баланс меньше стоимости действия
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// Типы действий, которые пишутся в credit_transactions.action_type
const (
	ActionSuggestion  = "ai_suggestion"
	ActionTranslation = "translation"
	ActionSpeech      = "text_to_speech"
	ActionEnhancement = "ai_enhancement"
)

// CreditDeduction - аргументы процедуры deduct_credits
type CreditDeduction struct {
	UserID      string
	Credits     int
	ActionType  string
	Description string
}

// CreditRepository работает с балансом кредитов пользователя.
// Списание целиком выполняется процедурой в БД (проверка баланса + журнал).
//
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=CreditRepository --dir=. --output=./mocks --outpkg=mocks
type CreditRepository interface {
	Deduct(ctx context.Context, d CreditDeduction) error
	Balance(ctx context.Context, userID string) (int, error)
}
