package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusPartial   AppointmentStatus = "partial"
	StatusPaid      AppointmentStatus = "paid"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPartial, StatusPaid, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// MoneyScale number of decimal places stored for money (NUMERIC(12,2))
const MoneyScale = 2

// HasMoneyScale reports whether d fits into MoneyScale decimal places without rounding
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// ComputeStatus returns the status of a new appointment from its deposit
func ComputeStatus(price, deposit decimal.Decimal) AppointmentStatus {
	switch {
	case deposit.GreaterThanOrEqual(price):
		return StatusPaid
	case deposit.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// Appointment represents a booked time range on a resource
type Appointment struct {
	ID         int64
	TenantID   int64
	ResourceID int64
	ServiceID  int64

	Start time.Time
	End   time.Time

	// Snapshot of the service at booking time
	ServiceName     string
	DurationMinutes int
	Price           decimal.Decimal
	Deposit         decimal.Decimal
	Balance         decimal.Decimal

	Status AppointmentStatus

	ClientName  string
	ClientPhone *string
	ClientID    *int64

	// Sector-specific fields
	VehicleInfo   *string
	ClinicalNotes *string
	Notes         *string

	IsRecurring        bool
	RecurrenceParentID *int64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the [Start, End) range of the appointment
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.Start, End: a.End}
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsActive returns true if the appointment still holds its slot
func (a *Appointment) IsActive() bool {
	return !a.IsCancelled()
}

// IsTerminal returns true if no further transitions are possible
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// CanTransitionTo reports whether a manual status change is allowed.
// paid is reached only through payment recording.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch next {
	case StatusConfirmed:
		return a.Status == StatusPending || a.Status == StatusPartial || a.Status == StatusPaid
	case StatusCompleted:
		return a.Status == StatusPending || a.Status == StatusPartial ||
			a.Status == StatusPaid || a.Status == StatusConfirmed
	case StatusCancelled:
		return !a.IsTerminal()
	default:
		return false
	}
}

// CanAcceptPayment returns true if money can still be recorded against the appointment
func (a *Appointment) CanAcceptPayment() bool {
	return !a.IsCancelled() && a.Balance.IsPositive()
}

// ApplyPayment adds amount to the deposit and recomputes balance and status.
// Payment never moves the status backwards: confirmed stays confirmed until the
// balance is settled, completed stays completed.
func (a *Appointment) ApplyPayment(amount decimal.Decimal) {
	a.Deposit = a.Deposit.Add(amount)
	a.Balance = a.Price.Sub(a.Deposit)
	if !a.Balance.IsPositive() {
		a.Balance = decimal.Zero
	}

	switch {
	case a.Status == StatusCompleted:
	case a.Balance.IsZero():
		a.Status = StatusPaid
	case a.Status == StatusPending:
		a.Status = StatusPartial
	}
}

// In returns a copy with all instants converted to loc
func (a Appointment) In(loc *time.Location) *Appointment {
	a.Start = a.Start.In(loc)
	a.End = a.End.In(loc)
	return &a
}

// AppointmentsFilter фильтр выборки записей тенанта
type AppointmentsFilter struct {
	TenantID         int64      // Обязательный параметр
	From             *time.Time // start >= From
	To               *time.Time // start <= To
	ResourceID       *int64
	ClientName       *string // Точное совпадение без учета регистра
	IncludeCancelled bool
	ForUpdate        bool // SELECT ... FOR UPDATE (только внутри транзакции)
}
