package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/notifier"
)

// TenantRepository интерфейс репозитория тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// CatalogRepository интерфейс справочников услуг и ресурсов
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, tenantID, id int64) (*domain.Service, error)
	GetResourceByID(ctx context.Context, tenantID, id int64) (*domain.Resource, error)
	GetResources(ctx context.Context, tenantID int64) ([]*domain.Resource, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByTenantWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// MovementRepository интерфейс репозитория движений по счету
type MovementRepository interface {
	Create(ctx context.Context, m *domain.Movement) (*domain.Movement, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует изменения записей
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Notifier уведомляет владельца о новой записи
type Notifier interface {
	NotifyNewBooking(ctx context.Context, appt *domain.Appointment, owner notifier.Owner) bool
}

// Metrics доменные счетчики
type Metrics interface {
	IncBookingCreated(mode string)
	IncBookingConflict(mode string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
