package list_movements

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/service/ledger/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Границы периода берутся в UTC: from с начала дня, to до конца дня
func ToServiceRequest(tenantID int64, fromStr, toStr, typeStr string, appointmentID *int64) (*models.ListRequest, error) {
	req := &models.ListRequest{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
	}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from value: %w", err)
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to value: %w", err)
		}
		_, end := domain.DayBounds(to)
		req.To = &end
	}

	if typeStr != "" {
		req.Type = &typeStr
	}

	return req, nil
}
