package record_payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/testutil"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

const tenantID int64 = 1

type paymentMetrics map[string]int

func (m paymentMetrics) IncPaymentRecorded(status string) { m[status]++ }

func partialAppointment() *domain.Appointment {
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:          1,
		TenantID:    tenantID,
		ResourceID:  1,
		Start:       start,
		End:         start.Add(time.Hour),
		ServiceName: "Cut",
		Price:       decimal.NewFromInt(100),
		Deposit:     decimal.NewFromInt(50),
		Balance:     decimal.NewFromInt(50),
		Status:      domain.StatusPartial,
		ClientName:  "Anna",
	}
}

type fixture struct {
	appts     *testutil.Appointments
	movements *testutil.Movements
	tx        *testutil.TxManager
	publisher *testutil.Publisher
	metrics   paymentMetrics
	uc        *UseCase
}

func newFixture(existing ...*domain.Appointment) *fixture {
	f := &fixture{
		appts:     testutil.NewAppointments(existing...),
		movements: &testutil.Movements{},
		tx:        &testutil.TxManager{},
		publisher: &testutil.Publisher{},
		metrics:   paymentMetrics{},
	}
	tenants := testutil.NewTenants(&domain.Tenant{ID: tenantID, Sector: domain.SectorClinic})
	f.uc = NewUseCase(tenants, f.appts, f.movements, f.tx, f.publisher, f.metrics, logger.NewNop()).
		WithTimeProvider(testutil.Clock{T: time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC)})
	return f
}

func TestExecute_RemainingBalanceMarksPaid(t *testing.T) {
	f := newFixture(partialAppointment())

	resp, err := f.uc.Execute(context.Background(), &Request{
		TenantID: tenantID, AppointmentID: 1, Amount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPaid), resp.Status)
	assert.True(t, resp.Balance.IsZero())
	assert.True(t, resp.Deposit.Equal(decimal.NewFromInt(100)))

	stored, err := f.appts.GetByID(context.Background(), tenantID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, stored.Status)

	require.Len(t, f.movements.Items, 1)
	assert.Equal(t, resp.MovementID, f.movements.Items[0].ID)
	assert.Equal(t, domain.MovementIncome, f.movements.Items[0].Type)
	assert.True(t, f.movements.Items[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(1), *f.movements.Items[0].AppointmentID)

	assert.Equal(t, 1, f.tx.Calls)
	assert.Equal(t, []string{domain.EventAppointmentUpdated}, f.publisher.Types())
	assert.Equal(t, 1, f.metrics[string(domain.StatusPaid)])
}

func TestExecute_PartialPayment(t *testing.T) {
	f := newFixture(partialAppointment())

	resp, err := f.uc.Execute(context.Background(), &Request{
		TenantID: tenantID, AppointmentID: 1, Amount: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPartial), resp.Status)
	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(30)))
}

func TestExecute_PaymentKeepsForwardStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.AppointmentStatus
		amount     int64
		wantStatus domain.AppointmentStatus
	}{
		{name: "confirmed partial", status: domain.StatusConfirmed, amount: 20, wantStatus: domain.StatusConfirmed},
		{name: "confirmed settled", status: domain.StatusConfirmed, amount: 50, wantStatus: domain.StatusPaid},
		{name: "completed partial", status: domain.StatusCompleted, amount: 20, wantStatus: domain.StatusCompleted},
		{name: "completed settled", status: domain.StatusCompleted, amount: 50, wantStatus: domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := partialAppointment()
			appt.Status = tt.status
			f := newFixture(appt)

			resp, err := f.uc.Execute(context.Background(), &Request{
				TenantID: tenantID, AppointmentID: 1, Amount: decimal.NewFromInt(tt.amount),
			})
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantStatus), resp.Status)

			stored, err := f.appts.GetByID(context.Background(), tenantID, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)
			require.Len(t, f.movements.Items, 1)
		})
	}
}

func TestExecute_Rejections(t *testing.T) {
	cancelled := partialAppointment()
	cancelled.ID = 2
	cancelled.Status = domain.StatusCancelled

	paid := partialAppointment()
	paid.ID = 3
	paid.Deposit = paid.Price
	paid.Balance = decimal.Zero
	paid.Status = domain.StatusPaid

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "zero amount", req: &Request{TenantID: tenantID, AppointmentID: 1, Amount: decimal.Zero}, wantErr: ErrInvalidAmount},
		{name: "over balance", req: &Request{TenantID: tenantID, AppointmentID: 1, Amount: decimal.NewFromInt(60)}, wantErr: ErrInvalidAmount},
		{name: "below cent", req: &Request{TenantID: tenantID, AppointmentID: 1, Amount: decimal.RequireFromString("49.999")}, wantErr: ErrInvalidAmount},
		{name: "cancelled", req: &Request{TenantID: tenantID, AppointmentID: 2, Amount: decimal.NewFromInt(10)}, wantErr: ErrPaymentNotAllowed},
		{name: "already paid", req: &Request{TenantID: tenantID, AppointmentID: 3, Amount: decimal.NewFromInt(10)}, wantErr: ErrPaymentNotAllowed},
		{name: "not found", req: &Request{TenantID: tenantID, AppointmentID: 9, Amount: decimal.NewFromInt(10)}, wantErr: ErrAppointmentNotFound},
		{name: "unknown tenant", req: &Request{TenantID: 4, AppointmentID: 1, Amount: decimal.NewFromInt(10)}, wantErr: ErrTenantNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(partialAppointment(), cancelled, paid)

			_, err := f.uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.movements.Items)
			assert.Empty(t, f.publisher.Events)
		})
	}
}

func TestExecute_MovementFailureIsReported(t *testing.T) {
	f := newFixture(partialAppointment())
	f.movements.Err = testutil.ErrStore

	_, err := f.uc.Execute(context.Background(), &Request{
		TenantID: tenantID, AppointmentID: 1, Amount: decimal.NewFromInt(50),
	})
	require.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.publisher.Events)
}
