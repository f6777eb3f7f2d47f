package ledger

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// MovementRepository интерфейс репозитория движений по счету
type MovementRepository interface {
	GetByTenantWithFilter(ctx context.Context, filter domain.MovementsFilter) ([]*domain.Movement, error)
	Delete(ctx context.Context, tenantID, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
