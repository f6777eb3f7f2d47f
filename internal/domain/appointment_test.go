package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeStatus(t *testing.T) {
	price := decimal.NewFromInt(100)

	assert.Equal(t, StatusPending, ComputeStatus(price, decimal.Zero))
	assert.Equal(t, StatusPartial, ComputeStatus(price, decimal.NewFromInt(50)))
	assert.Equal(t, StatusPaid, ComputeStatus(price, decimal.NewFromInt(100)))
	assert.Equal(t, StatusPaid, ComputeStatus(decimal.Zero, decimal.Zero))
}

func TestAppointment_ApplyPayment(t *testing.T) {
	a := &Appointment{
		Price:   decimal.NewFromInt(100),
		Deposit: decimal.NewFromInt(50),
		Balance: decimal.NewFromInt(50),
		Status:  StatusPartial,
	}

	a.ApplyPayment(decimal.NewFromInt(20))
	assert.Equal(t, StatusPartial, a.Status)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(30)))

	a.ApplyPayment(decimal.NewFromInt(30))
	assert.Equal(t, StatusPaid, a.Status)
	assert.True(t, a.Balance.IsZero())
	assert.True(t, a.Deposit.Equal(decimal.NewFromInt(100)))
	assert.False(t, a.CanAcceptPayment())
}

func TestAppointment_ApplyPayment_KeepsForwardStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      AppointmentStatus
		amount      int64
		wantStatus  AppointmentStatus
		wantBalance int64
	}{
		{name: "pending partial payment", status: StatusPending, amount: 30, wantStatus: StatusPartial, wantBalance: 70},
		{name: "pending full payment", status: StatusPending, amount: 100, wantStatus: StatusPaid, wantBalance: 0},
		{name: "confirmed partial payment", status: StatusConfirmed, amount: 30, wantStatus: StatusConfirmed, wantBalance: 70},
		{name: "confirmed full payment", status: StatusConfirmed, amount: 100, wantStatus: StatusPaid, wantBalance: 0},
		{name: "completed partial payment", status: StatusCompleted, amount: 30, wantStatus: StatusCompleted, wantBalance: 70},
		{name: "completed full payment", status: StatusCompleted, amount: 100, wantStatus: StatusCompleted, wantBalance: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{
				Price:   decimal.NewFromInt(100),
				Deposit: decimal.Zero,
				Balance: decimal.NewFromInt(100),
				Status:  tt.status,
			}
			assert.True(t, a.CanAcceptPayment())

			a.ApplyPayment(decimal.NewFromInt(tt.amount))
			assert.Equal(t, tt.wantStatus, a.Status)
			assert.True(t, a.Balance.Equal(decimal.NewFromInt(tt.wantBalance)), "balance=%s", a.Balance)
		})
	}
}

func TestHasMoneyScale(t *testing.T) {
	assert.True(t, HasMoneyScale(decimal.NewFromInt(100)))
	assert.True(t, HasMoneyScale(decimal.RequireFromString("99.99")))
	assert.True(t, HasMoneyScale(decimal.RequireFromString("10.500")))
	assert.False(t, HasMoneyScale(decimal.RequireFromString("99.999")))
	assert.False(t, HasMoneyScale(decimal.RequireFromString("0.001")))
}

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPaid, StatusConfirmed, true},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusPartial, StatusCancelled, true},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusPending, StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			assert.Equal(t, tt.want, a.CanTransitionTo(tt.to))
		})
	}
}

func TestCapabilitiesFor(t *testing.T) {
	assert.True(t, CapabilitiesFor(SectorWorkshop).VehicleInfo)
	assert.False(t, CapabilitiesFor(SectorWorkshop).Recurring)
	assert.True(t, CapabilitiesFor(SectorClinic).ClinicalNotes)
	assert.True(t, CapabilitiesFor(SectorSalon).Recurring)
	assert.Equal(t, CapabilitiesFor(SectorGeneric), CapabilitiesFor(Sector("bakery")))
}
