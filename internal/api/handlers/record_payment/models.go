package record_payment

import (
	"time"

	"github.com/shopspring/decimal"

	recordPayment "github.com/m04kA/SMC-AgendaService/internal/usecase/record_payment"
)

// RecordPaymentRequest HTTP request model; amount строкой или числом
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// PaymentResponse HTTP response model
type PaymentResponse struct {
	AppointmentID int64           `json:"appointmentId"`
	MovementID    int64           `json:"movementId"`
	Price         decimal.Decimal `json:"price"`
	Deposit       decimal.Decimal `json:"deposit"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	PaidAt        string          `json:"paidAt"`
}

func (r *RecordPaymentRequest) ToUseCaseRequest(tenantID, appointmentID int64) *recordPayment.Request {
	return &recordPayment.Request{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		Amount:        r.Amount,
	}
}

func FromUseCaseResponse(resp *recordPayment.Response) *PaymentResponse {
	return &PaymentResponse{
		AppointmentID: resp.AppointmentID,
		MovementID:    resp.MovementID,
		Price:         resp.Price,
		Deposit:       resp.Deposit,
		Balance:       resp.Balance,
		Status:        resp.Status,
		PaidAt:        resp.PaidAt.Format(time.RFC3339),
	}
}
