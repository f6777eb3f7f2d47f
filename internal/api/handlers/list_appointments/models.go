package list_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Если to не указан, берется один день from
func ToServiceRequest(tenantID int64, fromStr, toStr string, resourceID *int64, includeCancelledStr string) (*models.ListRangeRequest, error) {
	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		return nil, fmt.Errorf("invalid from value: %w", err)
	}

	to := from
	if toStr != "" {
		to, err = time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to value: %w", err)
		}
	}

	req := &models.ListRangeRequest{
		TenantID:   tenantID,
		From:       from,
		To:         to,
		ResourceID: resourceID,
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
