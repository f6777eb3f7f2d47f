package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType direction of a ledger entry
type MovementType string

const (
	MovementIncome  MovementType = "income"
	MovementExpense MovementType = "expense"
)

// Movement represents a ledger entry
type Movement struct {
	ID            int64
	TenantID      int64
	Description   string
	Amount        decimal.Decimal
	Type          MovementType
	Date          time.Time
	AppointmentID *int64
	CreatedAt     time.Time
}

// MovementsFilter фильтр выборки движений по счету
type MovementsFilter struct {
	TenantID      int64
	From          *time.Time
	To            *time.Time
	Type          *MovementType
	AppointmentID *int64
}
