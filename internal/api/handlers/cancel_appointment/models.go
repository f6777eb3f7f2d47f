package cancel_appointment

import (
	"strings"

	"github.com/m04kA/SMC-AgendaService/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest() *models.CancelRequest {
	if r.CancellationReason == nil {
		return &models.CancelRequest{}
	}

	reason := strings.TrimSpace(*r.CancellationReason)
	if reason == "" {
		return &models.CancelRequest{}
	}
	return &models.CancelRequest{Reason: &reason}
}
