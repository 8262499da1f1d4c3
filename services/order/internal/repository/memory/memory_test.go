package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
)

func TestOrderRepository_AdvanceToInProgress(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	require.NoError(t, repo.Create(ctx, repository.Order{ID: "o-1", UserID: "u-1", Amount: decimal.NewFromInt(1500)}))

	order, advanced, err := repo.AdvanceToInProgress(ctx, "o-1")
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, repository.OrderStatusInProgress, order.Status)

	// повторно: уже не created
	_, advanced, err = repo.AdvanceToInProgress(ctx, "o-1")
	require.NoError(t, err)
	assert.False(t, advanced)

	_, advanced, err = repo.AdvanceToInProgress(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, advanced)
}

func TestTransactionRepository_FindOrCreateForOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	first, err := repo.FindOrCreateForOrder(ctx, repository.Transaction{
		OrderID: "o-1", Reference: "ref-1", AccessCode: "ac-1", Amount: decimal.NewFromInt(10), Email: "a@b.c",
	})
	require.NoError(t, err)

	channel := "card"
	paidAt := time.Now()
	_, err = repo.ApplyByReference(ctx, repository.StatusUpdate{
		Reference: "ref-1", Status: repository.TransactionFailed, Channel: &channel, PaidAt: &paidAt,
	})
	require.NoError(t, err)

	second, err := repo.FindOrCreateForOrder(ctx, repository.Transaction{
		OrderID: "o-1", Reference: "ref-2", AccessCode: "ac-2", Amount: decimal.NewFromInt(12), Email: "a@b.c",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ref-2", second.Reference)
	assert.Equal(t, repository.TransactionPending, second.Status)
	assert.Nil(t, second.Channel)
	assert.Nil(t, second.PaidAt)

	list, err := repo.ListByOrderID(ctx, "o-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ref-2", list[0].Reference)

	_, err = repo.GetByReference(ctx, "ref-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTransactionRepository_ApplyByReference_UnknownReferenceInserts(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	tx, err := repo.ApplyByReference(ctx, repository.StatusUpdate{
		Reference: "ref-x",
		OrderID:   "o-9",
		Amount:    decimal.RequireFromString("1500.50"),
		Email:     "c@d.e",
		Status:    repository.TransactionCompleted,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "o-9", tx.OrderID)

	got, err := repo.GetByReference(ctx, "ref-x")
	require.NoError(t, err)
	assert.Equal(t, repository.TransactionCompleted, got.Status)
	assert.True(t, decimal.RequireFromString("1500.5").Equal(got.Amount))
}

func TestTransactionRepository_ApplyByReference_Amount(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	_, err := repo.FindOrCreateForOrder(ctx, repository.Transaction{
		OrderID: "o-1", Reference: "ref-1", Amount: decimal.RequireFromString("1500.50"), Email: "a@b.c",
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{name: "zero keeps stored amount", amount: decimal.Zero, want: "1500.5"},
		{name: "provider amount wins", amount: decimal.RequireFromString("1499.99"), want: "1499.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ApplyByReference(ctx, repository.StatusUpdate{
				Reference: "ref-1", Amount: tt.amount, Status: repository.TransactionCompleted,
			})
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got.Amount), got.Amount.String())
			assert.Equal(t, "o-1", got.OrderID)
		})
	}
}
