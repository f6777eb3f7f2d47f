package list_movements

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/service/ledger/models"
)

type LedgerService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.MovementListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
