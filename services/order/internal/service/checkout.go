package service

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
)

// PaymentService ведёт оплату заказа: инициализация у провайдера и сверка статусов
type PaymentService struct {
	provider    PaymentProvider
	webhooks    WebhookDecoder
	orderRepo   repository.OrderRepository
	txRepo      repository.TransactionRepository
	publisher   PaymentEventPublisher
	callbackURL string
	logger      *zap.Logger
}

// NewPaymentService создаёт PaymentService; callbackURL - дефолт, если клиент не передал свой
func NewPaymentService(
	provider PaymentProvider,
	webhooks WebhookDecoder,
	orderRepo repository.OrderRepository,
	txRepo repository.TransactionRepository,
	publisher PaymentEventPublisher,
	callbackURL string,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		provider:    provider,
		webhooks:    webhooks,
		orderRepo:   orderRepo,
		txRepo:      txRepo,
		publisher:   publisher,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

// InitiateCheckoutInput - входные данные checkout, сумма в основных единицах
type InitiateCheckoutInput struct {
	OrderID     string
	Email       string
	Amount      decimal.Decimal
	CallbackURL string
	Metadata    map[string]any
}

// InitiateCheckoutOutput - ссылка на оплату. Warnings непустые, если запись транзакции не сохранилась
type InitiateCheckoutOutput struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
	Warnings         []string
}

// InitiateCheckout запрашивает у провайдера hosted checkout и сохраняет pending транзакцию.
// Ретраев нет: ошибка провайдера возвращается как есть (UpstreamError).
func (s *PaymentService) InitiateCheckout(ctx context.Context, caller Caller, input InitiateCheckoutInput) (InitiateCheckoutOutput, error) {
	logger := observability.L(ctx, s.logger)

	if err := validateCheckout(input); err != nil {
		return InitiateCheckoutOutput{}, err
	}

	metadata := maps.Clone(input.Metadata)
	if metadata == nil {
		metadata = make(map[string]any, 2)
	}
	metadata["order_id"] = input.OrderID
	if caller.UserID != "" {
		metadata["user_id"] = caller.UserID
	}

	callbackURL := input.CallbackURL
	if callbackURL == "" {
		callbackURL = s.callbackURL
	}

	initRes, err := s.provider.InitializeTransaction(ctx, InitializeRequest{
		Email:       input.Email,
		AmountMinor: ToMinorUnits(input.Amount),
		CallbackURL: callbackURL,
		Metadata:    metadata,
	})
	if err != nil {
		logger.Warn("payment initialization failed",
			zap.Error(err),
			zap.String("order_id", input.OrderID),
		)
		return InitiateCheckoutOutput{}, fmt.Errorf("initialize transaction: %w", err)
	}

	out := InitiateCheckoutOutput{
		AuthorizationURL: initRes.AuthorizationURL,
		AccessCode:       initRes.AccessCode,
		Reference:        initRes.Reference,
	}

	// Ссылка у клиента уже есть: ошибку записи только логируем,
	// webhook/verify всё равно создадут строку по reference
	_, err = s.txRepo.FindOrCreateForOrder(ctx, repository.Transaction{
		OrderID:    input.OrderID,
		Amount:     input.Amount,
		Reference:  initRes.Reference,
		AccessCode: initRes.AccessCode,
		Email:      input.Email,
		Metadata:   metadata,
	})
	if err != nil {
		logger.Error("failed to persist pending transaction",
			zap.Error(err),
			zap.String("order_id", input.OrderID),
			zap.String("reference", initRes.Reference),
		)
		out.Warnings = append(out.Warnings, "transaction record not saved")
	}

	logger.Info("payment initialized",
		zap.String("order_id", input.OrderID),
		zap.String("reference", initRes.Reference),
	)
	return out, nil
}

func validateCheckout(input InitiateCheckoutInput) error {
	if strings.TrimSpace(input.OrderID) == "" {
		return apperrors.Required("orderId")
	}
	if strings.TrimSpace(input.Email) == "" {
		return apperrors.Required("email")
	}
	if input.Amount.IsZero() {
		return apperrors.Required("amount")
	}
	if input.Amount.GreaterThan(MaxAmount) {
		return apperrors.Invalid("amount", errAmountTooLarge)
	}
	if input.Amount.IsNegative() || ToMinorUnits(input.Amount) <= 0 {
		return apperrors.Invalid("amount", "amount must be greater than 0")
	}
	return nil
}
