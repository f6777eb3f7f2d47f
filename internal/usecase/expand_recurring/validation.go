package expand_recurring

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxWeeks int) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.Weeks < 1 || req.Weeks > maxWeeks {
		return fmt.Errorf("%w: weeks must be between 1 and %d", ErrInvalidInput, maxWeeks)
	}

	return nil
}
