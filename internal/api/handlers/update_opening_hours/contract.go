package update_opening_hours

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/service/tenants/models"
)

type TenantService interface {
	UpdateOpeningHours(ctx context.Context, tenantID int64, req *models.UpdateOpeningHoursRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
