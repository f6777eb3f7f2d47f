package expand_recurring

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	tenantRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AgendaService/pkg/tracing"
)

const tracerName = "usecase/expand_recurring"

// UseCase use case для повтора записи с недельным шагом
//
// Каждое повторение сохраняется отдельно, без транзакции на всю серию и без проверки
// пересечений с существующими записями. Ошибка одного повторения попадает в Failed
// и не останавливает остальные.
type UseCase struct {
	tenantRepo      TenantRepository
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	metrics         Metrics
	maxWeeks        int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	metrics Metrics,
	maxWeeks int,
	logger Logger,
) *UseCase {
	if maxWeeks <= 0 {
		maxWeeks = domain.DefaultMaxRecurringWeeks
	}
	return &UseCase{
		tenantRepo:      tenantRepo,
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		metrics:         metrics,
		maxWeeks:        maxWeeks,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracing.Start(ctx, tracerName, "ExpandRecurring",
		attribute.Int64("tenant.id", req.TenantID),
		attribute.Int64("appointment.id", req.AppointmentID),
		attribute.Int("recurring.weeks", req.Weeks),
	)
	defer span.End()

	uc.logger.Info("ExpandRecurring: tenant=%d, appointment=%d, weeks=%d", req.TenantID, req.AppointmentID, req.Weeks)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxWeeks); err != nil {
		uc.logger.Warn("ExpandRecurring: validation failed: %v", err)
		return nil, err
	}

	// 2. Бизнес и его возможности
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("ExpandRecurring: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("ExpandRecurring: failed to get tenant id=%d: %v", req.TenantID, err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	if !tenant.Capabilities().Recurring {
		uc.logger.Warn("ExpandRecurring: tenant=%d sector=%s has no recurring appointments", req.TenantID, tenant.Sector)
		return nil, ErrCapabilityDisabled
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("ExpandRecurring: tenant id=%d has invalid timezone: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Базовая запись
	base, err := uc.appointmentRepo.GetByID(ctx, req.TenantID, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ExpandRecurring: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ExpandRecurring: failed to get appointment id=%d: %v", req.AppointmentID, err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if base.IsCancelled() {
		uc.logger.Warn("ExpandRecurring: appointment id=%d is cancelled", req.AppointmentID)
		return nil, ErrAppointmentCancelled
	}

	base = base.In(loc)

	response := &Response{
		BaseID:     base.ID,
		Created:    []string{},
		Failed:     []string{},
		CreatedIDs: []int64{},
	}

	// 4. Повторения сохраняются по одному
	for i := 1; i <= req.Weeks; i++ {
		occurrence := nextOccurrence(base, i)
		label := occurrence.Start.Format(domain.DateFormat)

		created, err := uc.appointmentRepo.Create(ctx, occurrence)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				uc.logger.Warn("ExpandRecurring: occurrence %s of appointment id=%d clashes with an existing one",
					label, base.ID)
			} else {
				uc.logger.Error("ExpandRecurring: failed to create occurrence %s of appointment id=%d: %v",
					label, base.ID, err)
			}
			response.Failed = append(response.Failed, label)
			continue
		}

		response.Created = append(response.Created, label)
		response.CreatedIDs = append(response.CreatedIDs, created.ID)
		uc.publish(ctx, created)
	}

	if uc.metrics != nil {
		uc.metrics.AddRecurringOccurrences(len(response.Created), len(response.Failed))
	}

	uc.logger.Info("ExpandRecurring: appointment id=%d expanded, created=%d, failed=%d",
		base.ID, len(response.Created), len(response.Failed))

	return response, nil
}

// nextOccurrence копия базовой записи через weeks недель
// Сдвиг по календарным дням сохраняет время на часах при переходе на летнее время
func nextOccurrence(base *domain.Appointment, weeks int) *domain.Appointment {
	parentID := base.ID
	return &domain.Appointment{
		TenantID:           base.TenantID,
		ResourceID:         base.ResourceID,
		ServiceID:          base.ServiceID,
		Start:              base.Start.AddDate(0, 0, 7*weeks),
		End:                base.End.AddDate(0, 0, 7*weeks),
		ServiceName:        base.ServiceName,
		DurationMinutes:    base.DurationMinutes,
		Price:              base.Price,
		Deposit:            decimal.Zero,
		Balance:            base.Price,
		Status:             domain.StatusPending,
		ClientName:         base.ClientName,
		ClientPhone:        base.ClientPhone,
		ClientID:           base.ClientID,
		VehicleInfo:        base.VehicleInfo,
		ClinicalNotes:      base.ClinicalNotes,
		Notes:              base.Notes,
		IsRecurring:        true,
		RecurrenceParentID: &parentID,
	}
}

func (uc *UseCase) publish(ctx context.Context, appt *domain.Appointment) {
	if uc.publisher == nil {
		return
	}
	event := events.NewEvent(domain.EventAppointmentCreated, appt, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("ExpandRecurring: failed to publish event for appointment id=%d: %v", appt.ID, err)
	}
}
