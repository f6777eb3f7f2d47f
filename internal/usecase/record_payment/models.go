package record_payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на запись платежа
type Request struct {
	TenantID      int64
	AppointmentID int64
	Amount        decimal.Decimal
}

// Response состояние оплаты записи после платежа
type Response struct {
	AppointmentID int64
	MovementID    int64
	Price         decimal.Decimal
	Deposit       decimal.Decimal
	Balance       decimal.Decimal
	Status        string
	PaidAt        time.Time
}
