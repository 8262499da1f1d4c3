package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository/memory"
	repoMocks "github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository/mocks"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/service/mocks"
)

const defaultCallback = "https://okousmarthub.example/paiement/retour"

func TestPaymentService_InitiateCheckout_TwiceKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	provider := mocks.NewPaymentProvider(t)
	txs := memory.NewTransactionRepository()

	provider.On("InitializeTransaction", mock.Anything, mock.Anything).
		Return(service.InitializeResult{AuthorizationURL: "https://checkout/1", AccessCode: "ac-1", Reference: "ref-1"}, nil).Once()
	provider.On("InitializeTransaction", mock.Anything, mock.Anything).
		Return(service.InitializeResult{AuthorizationURL: "https://checkout/2", AccessCode: "ac-2", Reference: "ref-2"}, nil).Once()

	svc := service.NewPaymentService(provider, nil, memory.NewOrderRepository(), txs, nil, defaultCallback, zap.NewNop())

	input := service.InitiateCheckoutInput{OrderID: "order-1", Email: "client@example.com", Amount: decimal.NewFromInt(1500)}

	first, err := svc.InitiateCheckout(ctx, service.Caller{UserID: "u-1"}, input)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", first.Reference)

	second, err := svc.InitiateCheckout(ctx, service.Caller{UserID: "u-1"}, input)
	require.NoError(t, err)
	assert.Equal(t, "ref-2", second.Reference)
	assert.Equal(t, "https://checkout/2", second.AuthorizationURL)
	assert.Empty(t, second.Warnings)

	list, err := txs.ListByOrderID(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ref-2", list[0].Reference)
	assert.Equal(t, "ac-2", list[0].AccessCode)
	assert.Equal(t, repository.TransactionPending, list[0].Status)
}

func TestPaymentService_InitiateCheckout_SendsMinorUnitsAndMetadata(t *testing.T) {
	provider := mocks.NewPaymentProvider(t)

	provider.On("InitializeTransaction", mock.Anything, mock.MatchedBy(func(req service.InitializeRequest) bool {
		return req.AmountMinor == 150050 &&
			req.Email == "client@example.com" &&
			req.CallbackURL == defaultCallback &&
			req.Metadata["order_id"] == "order-7" &&
			req.Metadata["user_id"] == "u-7" &&
			req.Metadata["source"] == "web"
	})).Return(service.InitializeResult{Reference: "ref-7"}, nil)

	svc := service.NewPaymentService(provider, nil, memory.NewOrderRepository(), memory.NewTransactionRepository(), nil, defaultCallback, zap.NewNop())

	meta := map[string]any{"source": "web"}
	_, err := svc.InitiateCheckout(context.Background(), service.Caller{UserID: "u-7"}, service.InitiateCheckoutInput{
		OrderID:  "order-7",
		Email:    "client@example.com",
		Amount:   decimal.RequireFromString("1500.5"),
		Metadata: meta,
	})
	require.NoError(t, err)

	// входная map не мутируется
	assert.NotContains(t, meta, "order_id")
}

func TestPaymentService_InitiateCheckout_CustomCallback(t *testing.T) {
	provider := mocks.NewPaymentProvider(t)
	provider.On("InitializeTransaction", mock.Anything, mock.MatchedBy(func(req service.InitializeRequest) bool {
		return req.CallbackURL == "https://custom/return"
	})).Return(service.InitializeResult{Reference: "ref"}, nil)

	svc := service.NewPaymentService(provider, nil, memory.NewOrderRepository(), memory.NewTransactionRepository(), nil, defaultCallback, zap.NewNop())

	_, err := svc.InitiateCheckout(context.Background(), service.Caller{}, service.InitiateCheckoutInput{
		OrderID: "o", Email: "e@x.y", Amount: decimal.NewFromInt(1), CallbackURL: "https://custom/return",
	})
	require.NoError(t, err)
}

func TestPaymentService_InitiateCheckout_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     service.InitiateCheckoutInput
		wantField string
	}{
		{name: "missing order", input: service.InitiateCheckoutInput{Email: "e@x.y", Amount: decimal.NewFromInt(1)}, wantField: "orderId"},
		{name: "missing email", input: service.InitiateCheckoutInput{OrderID: "o", Amount: decimal.NewFromInt(1)}, wantField: "email"},
		{name: "zero amount", input: service.InitiateCheckoutInput{OrderID: "o", Email: "e@x.y"}, wantField: "amount"},
		{name: "negative amount", input: service.InitiateCheckoutInput{OrderID: "o", Email: "e@x.y", Amount: decimal.NewFromInt(-5)}, wantField: "amount"},
		{name: "below one minor unit", input: service.InitiateCheckoutInput{OrderID: "o", Email: "e@x.y", Amount: decimal.RequireFromString("0.001")}, wantField: "amount"},
		{name: "wraps past int64", input: service.InitiateCheckoutInput{OrderID: "o", Email: "e@x.y", Amount: decimal.RequireFromString("184467440737095516.17")}, wantField: "amount"},
		{name: "int64 overflow", input: service.InitiateCheckoutInput{OrderID: "o", Email: "e@x.y", Amount: decimal.RequireFromString("92233720368547758.08")}, wantField: "amount"},
		{name: "above column limit", input: service.InitiateCheckoutInput{OrderID: "o", Email: "e@x.y", Amount: decimal.RequireFromString("10000000000")}, wantField: "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// провайдер не должен вызываться: моки без ожиданий
			provider := mocks.NewPaymentProvider(t)
			txs := repoMocks.NewTransactionRepository(t)
			svc := service.NewPaymentService(provider, nil, repoMocks.NewOrderRepository(t), txs, nil, defaultCallback, zap.NewNop())

			_, err := svc.InitiateCheckout(context.Background(), service.Caller{}, tt.input)

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestPaymentService_InitiateCheckout_UpstreamError(t *testing.T) {
	provider := mocks.NewPaymentProvider(t)
	provider.On("InitializeTransaction", mock.Anything, mock.Anything).
		Return(service.InitializeResult{}, &apperrors.UpstreamError{Service: "paystack", Status: 400, StatusText: "Invalid key"})

	txs := repoMocks.NewTransactionRepository(t)
	svc := service.NewPaymentService(provider, nil, repoMocks.NewOrderRepository(t), txs, nil, defaultCallback, zap.NewNop())

	_, err := svc.InitiateCheckout(context.Background(), service.Caller{}, service.InitiateCheckoutInput{
		OrderID: "o", Email: "e@x.y", Amount: decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestPaymentService_InitiateCheckout_PersistenceFailureIsWarning(t *testing.T) {
	provider := mocks.NewPaymentProvider(t)
	provider.On("InitializeTransaction", mock.Anything, mock.Anything).
		Return(service.InitializeResult{AuthorizationURL: "https://checkout/x", Reference: "ref-x"}, nil)

	txs := repoMocks.NewTransactionRepository(t)
	txs.On("FindOrCreateForOrder", mock.Anything, mock.Anything).Return(repository.Transaction{}, errors.New("db down"))

	svc := service.NewPaymentService(provider, nil, repoMocks.NewOrderRepository(t), txs, nil, defaultCallback, zap.NewNop())

	out, err := svc.InitiateCheckout(context.Background(), service.Caller{}, service.InitiateCheckoutInput{
		OrderID: "o", Email: "e@x.y", Amount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout/x", out.AuthorizationURL)
	assert.NotEmpty(t, out.Warnings)
}
