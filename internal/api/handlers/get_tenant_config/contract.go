package get_tenant_config

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/service/tenants/models"
)

type TenantService interface {
	GetSettings(ctx context.Context, tenantID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
