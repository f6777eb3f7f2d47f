package catalog

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// CatalogRepository интерфейс справочников услуг и ресурсов
type CatalogRepository interface {
	GetServices(ctx context.Context, tenantID int64) ([]*domain.Service, error)
	GetResources(ctx context.Context, tenantID int64) ([]*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
