package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/service/appointments/models"
)

// RescheduleRequest HTTP request model
// start и end в RFC 3339 со смещением, как их отдает календарь после drag/resize
type RescheduleRequest struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ResourceID *int64    `json:"resourceId,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RescheduleRequest) ToServiceRequest() *models.RescheduleRequest {
	return &models.RescheduleRequest{
		Start:      r.Start,
		End:        r.End,
		ResourceID: r.ResourceID,
	}
}
