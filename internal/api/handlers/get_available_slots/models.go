package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AgendaService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string   `json:"date"`
	TenantID   int64    `json:"tenantId"`
	ServiceID  int64    `json:"serviceId"`
	ResourceID *int64   `json:"resourceId,omitempty"`
	Slots      []string `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := resp.Slots
	if slots == nil {
		slots = []string{}
	}

	return &AvailableSlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		TenantID:   resp.TenantID,
		ServiceID:  resp.ServiceID,
		ResourceID: resp.ResourceID,
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(tenantID, serviceID int64, resourceID *int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		TenantID:   tenantID,
		ServiceID:  serviceID,
		ResourceID: resourceID,
		Date:       date,
	}, nil
}
