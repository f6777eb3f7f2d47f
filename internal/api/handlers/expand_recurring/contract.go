package expand_recurring

import (
	"context"

	expandRecurring "github.com/m04kA/SMC-AgendaService/internal/usecase/expand_recurring"
)

type ExpandRecurringUseCase interface {
	Execute(ctx context.Context, req *expandRecurring.Request) (*expandRecurring.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
