package tenants

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// TenantRepository интерфейс репозитория тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
	UpdateOpeningHours(ctx context.Context, id int64, hours domain.OpeningHours) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
