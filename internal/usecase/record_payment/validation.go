package record_payment

import (
	"fmt"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	if !domain.HasMoneyScale(req.Amount) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", ErrInvalidAmount, req.Amount, domain.MoneyScale)
	}

	return nil
}

// validatePayment проверяет сумму относительно остатка записи
func validatePayment(appt *domain.Appointment, req *Request, caps domain.Capabilities) error {
	if !appt.CanAcceptPayment() {
		return fmt.Errorf("%w: status=%s, balance=%s", ErrPaymentNotAllowed, appt.Status, appt.Balance)
	}

	if req.Amount.GreaterThan(appt.Balance) {
		return fmt.Errorf("%w: amount %s exceeds balance %s", ErrInvalidAmount, req.Amount, appt.Balance)
	}

	if req.Amount.LessThan(appt.Balance) && !caps.PartialPayment {
		return ErrCapabilityDisabled
	}

	return nil
}
