package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	tenantRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AgendaService/internal/scheduling"
	"github.com/m04kA/SMC-AgendaService/pkg/tracing"
)

const tracerName = "usecase/get_available_slots"

// UseCase use case для получения доступных слотов для записи
// Результат не кэшируется: каждый вызов заново читает записи за день
type UseCase struct {
	tenantRepo      TenantRepository
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	stepMinutes     int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	stepMinutes int,
	logger Logger,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		tenantRepo:      tenantRepo,
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		stepMinutes:     stepMinutes,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracing.Start(ctx, tracerName, "GetAvailableSlots",
		attribute.Int64("tenant.id", req.TenantID),
		attribute.Int64("service.id", req.ServiceID),
	)
	defer span.End()

	uc.logger.Info("GetAvailableSlots: tenant=%d, service=%d, resource=%s, date=%s",
		req.TenantID, req.ServiceID, formatResource(req.ResourceID), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес и его часовой пояс
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant id=%d: %v", req.TenantID, err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: tenant id=%d has invalid timezone: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	date := domain.LocalDate(req.Date, loc)
	now := uc.timeProvider.Now().In(loc)

	response := &Response{
		Date:       date,
		TenantID:   req.TenantID,
		ServiceID:  req.ServiceID,
		ResourceID: req.ResourceID,
		Slots:      []string{},
	}

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Определяем режим: конкретный ресурс или пул
	mode, err := uc.resolveMode(ctx, req)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if mode.IsPooled() && mode.TotalResources == 0 {
		uc.logger.Info("GetAvailableSlots: tenant=%d has no resources", req.TenantID)
		return response, nil
	}

	// 5. Интервал работы на дату
	interval, open := tenant.OpeningHours.OpenIntervalForDate(date)
	if !open {
		uc.logger.Info("GetAvailableSlots: tenant=%d is closed on %s", req.TenantID, date.Format(domain.DateFormat))
		return response, nil
	}

	if isDateInPast(date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Все записи тенанта за день одним запросом
	dayStart, dayEnd := domain.DayBounds(date)
	appointments, err := uc.appointmentRepo.GetByTenantWithFilter(ctx, domain.AppointmentsFilter{
		TenantID: req.TenantID,
		From:     &dayStart,
		To:       &dayEnd,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Кандидаты, отсечение прошедших и занятых
	candidates := scheduling.GenerateSlots(interval, service.DurationMinutes, uc.stepMinutes)
	candidates = dropStarted(candidates, now)
	available := scheduling.FilterAvailable(candidates, service.DurationMinutes, appointments, mode)

	response.Slots = scheduling.FormatSlots(available)

	uc.logger.Info("GetAvailableSlots: %d of %d slots available for tenant=%d, service=%d, date=%s",
		len(response.Slots), len(candidates), req.TenantID, req.ServiceID, date.Format(domain.DateFormat))

	return response, nil
}

func (uc *UseCase) resolveMode(ctx context.Context, req *Request) (scheduling.Mode, error) {
	if req.ResourceID != nil {
		if _, err := uc.catalogRepo.GetResourceByID(ctx, req.TenantID, *req.ResourceID); err != nil {
			if errors.Is(err, catalogRepo.ErrResourceNotFound) {
				uc.logger.Warn("GetAvailableSlots: resource id=%d not found", *req.ResourceID)
				return scheduling.Mode{}, ErrResourceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", *req.ResourceID, err)
			return scheduling.Mode{}, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}
		return scheduling.Specific(*req.ResourceID), nil
	}

	resources, err := uc.catalogRepo.GetResources(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get resources: %v", err)
		return scheduling.Mode{}, fmt.Errorf("%w: failed to get resources: %v", ErrInternal, err)
	}
	return scheduling.Pooled(len(resources)), nil
}

func formatResource(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
