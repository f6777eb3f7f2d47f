package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Event изменение записи, рассылаемое подписчикам календаря
type Event struct {
	ID            uuid.UUID            `json:"id"`
	Type          string               `json:"type"`
	TenantID      int64                `json:"tenantId"`
	AppointmentID int64                `json:"appointmentId"`
	OccurredAt    time.Time            `json:"occurredAt"`
	Appointment   *AppointmentSnapshot `json:"appointment,omitempty"`
}

// AppointmentSnapshot состояние записи на момент события
type AppointmentSnapshot struct {
	ResourceID int64     `json:"resourceId"`
	ServiceID  int64     `json:"serviceId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	ClientName string    `json:"clientName"`
}

// NewEvent создает событие по записи; для удаления снимок не прикладывается
func NewEvent(eventType string, appt *domain.Appointment, now time.Time) Event {
	event := Event{
		ID:            uuid.New(),
		Type:          eventType,
		TenantID:      appt.TenantID,
		AppointmentID: appt.ID,
		OccurredAt:    now.UTC(),
	}

	if eventType != domain.EventAppointmentDeleted {
		event.Appointment = &AppointmentSnapshot{
			ResourceID: appt.ResourceID,
			ServiceID:  appt.ServiceID,
			Start:      appt.Start,
			End:        appt.End,
			Status:     string(appt.Status),
			ClientName: appt.ClientName,
		}
	}

	return event
}

// Publisher отправляет событие во внешний канал
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler обработчик события подписчика
type Handler func(Event)

// Subscriber подписка на события тенанта; возвращает функцию отписки
type Subscriber interface {
	Subscribe(ctx context.Context, tenantID int64, handler Handler) (func(), error)
}
