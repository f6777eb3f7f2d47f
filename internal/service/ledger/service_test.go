package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/service/ledger/models"
	"github.com/m04kA/SMC-AgendaService/internal/testutil"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
)

func seed(t *testing.T) *testutil.Movements {
	t.Helper()
	repo := &testutil.Movements{}
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	for _, m := range []*domain.Movement{
		{TenantID: 1, Description: "Deposit", Amount: decimal.NewFromInt(50), Type: domain.MovementIncome, Date: now, AppointmentID: ptr.Ptr(int64(7))},
		{TenantID: 1, Description: "Rent", Amount: decimal.NewFromInt(30), Type: domain.MovementExpense, Date: now},
		{TenantID: 1, Description: "Payment", Amount: decimal.NewFromInt(20), Type: domain.MovementIncome, Date: now},
		{TenantID: 2, Description: "Other", Amount: decimal.NewFromInt(99), Type: domain.MovementIncome, Date: now},
	} {
		_, err := repo.Create(context.Background(), m)
		require.NoError(t, err)
	}
	return repo
}

func TestList(t *testing.T) {
	svc := NewService(seed(t), logger.NewNop())

	resp, err := svc.List(context.Background(), &models.ListRequest{TenantID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Movements, 3)
	assert.True(t, resp.Income.Equal(decimal.NewFromInt(70)))
	assert.True(t, resp.Expense.Equal(decimal.NewFromInt(30)))

	resp, err = svc.List(context.Background(), &models.ListRequest{TenantID: 1, Type: ptr.Ptr("expense")})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 1)
	assert.Equal(t, "Rent", resp.Movements[0].Description)

	resp, err = svc.List(context.Background(), &models.ListRequest{TenantID: 1, AppointmentID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 1)

	_, err = svc.List(context.Background(), &models.ListRequest{TenantID: 1, Type: ptr.Ptr("refund")})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	repo := seed(t)
	svc := NewService(repo, logger.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 1, 1))
	require.ErrorIs(t, svc.Delete(context.Background(), 1, 1), ErrMovementNotFound)
	// чужой тенант
	require.ErrorIs(t, svc.Delete(context.Background(), 1, 4), ErrMovementNotFound)
	assert.Len(t, repo.Items, 3)
}
