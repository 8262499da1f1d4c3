package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
)

// Caller - аутентифицированный пользователь запроса, передаётся явно
type Caller struct {
	UserID string
}

// OrderService содержит бизнес-логику работы с заказами
type OrderService struct {
	orderRepo repository.OrderRepository
	txRepo    repository.TransactionRepository
	logger    *zap.Logger
}

// NewOrderService создаёт новый экземпляр OrderService
func NewOrderService(orderRepo repository.OrderRepository, txRepo repository.TransactionRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txRepo:    txRepo,
		logger:    logger,
	}
}

// CreateOrderInput содержит входные данные для создания заказа
type CreateOrderInput struct {
	ServiceType string
	Title       string
	Amount      decimal.Decimal
}

var serviceTypes = map[string]struct{}{
	repository.ServiceTypeReport: {},
	repository.ServiceTypeThesis: {},
	repository.ServiceTypeCV:     {},
	repository.ServiceTypeTravel: {},
}

// CreateOrder создаёт заказ в статусе created
func (s *OrderService) CreateOrder(ctx context.Context, caller Caller, input CreateOrderInput) (repository.Order, error) {
	if caller.UserID == "" {
		return repository.Order{}, apperrors.Required("user_id")
	}
	if _, ok := serviceTypes[input.ServiceType]; !ok {
		return repository.Order{}, apperrors.Invalid("service_type", fmt.Sprintf("unknown service_type %q", input.ServiceType))
	}
	if strings.TrimSpace(input.Title) == "" {
		return repository.Order{}, apperrors.Required("title")
	}
	if !input.Amount.IsPositive() {
		return repository.Order{}, apperrors.Invalid("amount", "amount must be greater than 0")
	}
	if input.Amount.GreaterThan(MaxAmount) {
		return repository.Order{}, apperrors.Invalid("amount", errAmountTooLarge)
	}

	order := repository.Order{
		ID:          uuid.NewString(),
		UserID:      caller.UserID,
		ServiceType: input.ServiceType,
		Title:       strings.TrimSpace(input.Title),
		Amount:      input.Amount,
		Status:      repository.OrderStatusCreated,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return repository.Order{}, fmt.Errorf("create order: %w", err)
	}

	observability.L(ctx, s.logger).Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("service_type", order.ServiceType),
	)
	return order, nil
}

// OrderDetails - заказ вместе с его платёжными попытками
type OrderDetails struct {
	Order        repository.Order
	Transactions []repository.Transaction
}

// GetOrder возвращает заказ владельца; чужой заказ выглядит как несуществующий
func (s *OrderService) GetOrder(ctx context.Context, caller Caller, orderID string) (OrderDetails, error) {
	if orderID == "" {
		return OrderDetails{}, apperrors.Required("id")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return OrderDetails{}, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != caller.UserID {
		return OrderDetails{}, fmt.Errorf("get order: %w", repository.ErrNotFound)
	}

	txs, err := s.txRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetails{}, fmt.Errorf("list transactions: %w", err)
	}

	return OrderDetails{Order: order, Transactions: txs}, nil
}
