package appointments_stream

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
)

type Subscriber interface {
	Subscribe(ctx context.Context, tenantID int64, handler events.Handler) (func(), error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
