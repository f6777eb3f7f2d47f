package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AgendaService/internal/infra/storage/pgerr"
	tenantRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AgendaService/internal/scheduling"
	"github.com/m04kA/SMC-AgendaService/pkg/tracing"
)

const tracerName = "usecase/create_booking"

// UseCase use case для создания записи
type UseCase struct {
	tenantRepo      TenantRepository
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	movementRepo    MovementRepository
	txManager       TransactionManager
	publisher       EventPublisher
	notifier        Notifier
	metrics         Metrics
	mode            string
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// publisher и notifier могут быть nil
func NewUseCase(
	tenantRepo TenantRepository,
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	movementRepo MovementRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	notifier Notifier,
	metrics Metrics,
	mode string,
	logger Logger,
) *UseCase {
	if mode != ModeWeak {
		mode = ModeStrict
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		tenantRepo:      tenantRepo,
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		movementRepo:    movementRepo,
		txManager:       txManager,
		publisher:       publisher,
		notifier:        notifier,
		metrics:         metrics,
		mode:            mode,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// bookingPlan проверенные данные записи до сохранения
type bookingPlan struct {
	appt      *domain.Appointment
	resources []*domain.Resource
	specific  bool
	day       domain.Interval
}

// Execute выполняет use case создания записи
// В режиме strict проверка слота и вставка выполняются в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracing.Start(ctx, tracerName, "CreateBooking",
		attribute.Int64("tenant.id", req.TenantID),
		attribute.Int64("service.id", req.ServiceID),
		attribute.String("booking.mode", uc.mode),
	)
	defer span.End()

	uc.logger.Info("CreateBooking: tenant=%d, service=%d, date=%s, time=%s, mode=%s",
		req.TenantID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, uc.mode)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("CreateBooking: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tenant id=%d: %v", req.TenantID, err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("CreateBooking: tenant id=%d has invalid timezone: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Отраслевые возможности
	caps := tenant.Capabilities()
	if err := validateCapabilities(req, caps); err != nil {
		uc.logger.Warn("CreateBooking: tenant=%d sector=%s: %v", req.TenantID, tenant.Sector, err)
		return nil, err
	}

	// 4. Получаем услугу и проверяем предоплату
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateDeposit(req.Deposit, service.Price, caps); err != nil {
		uc.logger.Warn("CreateBooking: deposit validation failed: %v", err)
		return nil, err
	}

	// 5. Телефон клиента в E.164
	phone, err := normalizePhone(req.Client.Phone, tenant.PhoneRegion)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 6. Интервал слота в часовом поясе бизнеса
	date := domain.LocalDate(req.Date, loc)
	start, err := req.StartTime.On(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	candidate := domain.Interval{
		Start: start,
		End:   start.Add(time.Duration(service.DurationMinutes) * time.Minute),
	}

	if err := validateSlot(candidate, tenant.OpeningHours, uc.timeProvider.Now().In(loc)); err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, err
	}

	// 7. Ресурсы-кандидаты
	resources, specific, err := uc.resolveResources(ctx, req)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	// 8. Снимок услуги и статус по предоплате
	appt := &domain.Appointment{
		TenantID:        req.TenantID,
		ServiceID:       service.ID,
		Start:           candidate.Start,
		End:             candidate.End,
		ServiceName:     service.Name,
		DurationMinutes: service.DurationMinutes,
		Price:           service.Price,
		Deposit:         req.Deposit,
		Balance:         service.Price.Sub(req.Deposit),
		Status:          domain.ComputeStatus(service.Price, req.Deposit),
		ClientName:      req.Client.Name,
		ClientPhone:     phone,
		ClientID:        req.Client.ClientID,
		VehicleInfo:     req.VehicleInfo,
		ClinicalNotes:   req.ClinicalNotes,
		Notes:           req.Notes,
	}

	dayStart, dayEnd := domain.DayBounds(date)
	plan := &bookingPlan{
		appt:      appt,
		resources: resources,
		specific:  specific,
		day:       domain.Interval{Start: dayStart, End: dayEnd},
	}

	// 9. Проверка слота и сохранение
	created, err := uc.persist(ctx, plan)
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.metrics.IncBookingConflict(uc.mode)
			uc.logger.Warn("CreateBooking: slot %s is not available for tenant=%d: %v",
				candidate.Start.Format(domain.TimeFormat), req.TenantID, err)
			return nil, ErrSlotNotAvailable
		}
		tracing.RecordError(span, err)
		return nil, err
	}

	uc.metrics.IncBookingCreated(uc.mode)
	uc.logger.Info("CreateBooking: successfully created appointment id=%d on resource=%d, status=%s",
		created.ID, created.ResourceID, created.Status)

	// 10. Побочные эффекты после фиксации не откатывают запись
	uc.publish(ctx, created)
	uc.notifyOwner(ctx, tenant, created)

	return toResponse(created.In(loc)), nil
}

// persist перечитывает записи дня, выбирает ресурс и сохраняет запись с движением по предоплате
func (uc *UseCase) persist(ctx context.Context, plan *bookingPlan) (*domain.Appointment, error) {
	var created *domain.Appointment

	write := func(ctx context.Context) error {
		existing, err := uc.appointmentRepo.GetByTenantWithFilter(ctx, domain.AppointmentsFilter{
			TenantID:  plan.appt.TenantID,
			From:      &plan.day.Start,
			To:        &plan.day.End,
			ForUpdate: uc.mode == ModeStrict,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		resourceID, err := pickResource(plan.appt.Interval(), existing, plan.resources, plan.specific)
		if err != nil {
			return err
		}
		plan.appt.ResourceID = resourceID

		created, err = uc.appointmentRepo.Create(ctx, plan.appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) || errors.Is(err, appointmentRepo.ErrSerialization) {
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		if !created.Deposit.IsPositive() {
			return nil
		}

		_, err = uc.movementRepo.Create(ctx, &domain.Movement{
			TenantID:      created.TenantID,
			Description:   fmt.Sprintf("Deposit: %s — %s", created.ServiceName, created.ClientName),
			Amount:        created.Deposit,
			Type:          domain.MovementIncome,
			Date:          uc.timeProvider.Now(),
			AppointmentID: &created.ID,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create deposit movement for appointment id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to create movement: %v", ErrInternal, err)
		}
		return nil
	}

	var err error
	if uc.mode == ModeStrict {
		err = uc.txManager.DoSerializable(ctx, write)
	} else {
		err = write(ctx)
	}

	if err != nil {
		// Конфликт сериализации может прийти и на COMMIT
		if pgerr.IsSerializationFailure(err) || pgerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	return created, nil
}

// resolveResources возвращает выбранный ресурс или все ресурсы бизнеса для режима пула
func (uc *UseCase) resolveResources(ctx context.Context, req *Request) ([]*domain.Resource, bool, error) {
	if req.ResourceID != nil {
		resource, err := uc.catalogRepo.GetResourceByID(ctx, req.TenantID, *req.ResourceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrResourceNotFound) {
				uc.logger.Warn("CreateBooking: resource id=%d not found", *req.ResourceID)
				return nil, true, ErrResourceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get resource id=%d: %v", *req.ResourceID, err)
			return nil, true, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}
		return []*domain.Resource{resource}, true, nil
	}

	resources, err := uc.catalogRepo.GetResources(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get resources: %v", err)
		return nil, false, fmt.Errorf("%w: failed to get resources: %v", ErrInternal, err)
	}
	if len(resources) == 0 {
		uc.logger.Warn("CreateBooking: tenant=%d has no resources", req.TenantID)
		return nil, false, ErrNoResourceAvailable
	}
	return resources, false, nil
}

// pickResource проверяет конфликт и возвращает конкретный ресурс
// В режиме пула выбирается свободный ресурс с наименьшим ID
func pickResource(candidate domain.Interval, existing []*domain.Appointment, resources []*domain.Resource, specific bool) (int64, error) {
	if specific {
		id := resources[0].ID
		if scheduling.IsBusy(candidate, existing, scheduling.Specific(id)) {
			return 0, fmt.Errorf("%w: resource %d is busy", ErrSlotNotAvailable, id)
		}
		return id, nil
	}

	free := scheduling.FirstFreeResource(candidate, existing, resources)
	if free == nil {
		return 0, fmt.Errorf("%w: all %d resources are busy", ErrSlotNotAvailable, len(resources))
	}
	return free.ID, nil
}

func (uc *UseCase) publish(ctx context.Context, appt *domain.Appointment) {
	if uc.publisher == nil {
		return
	}
	event := events.NewEvent(domain.EventAppointmentCreated, appt, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for appointment id=%d: %v", appt.ID, err)
	}
}

// notifyOwner уведомляет владельца в фоне; результат на запись не влияет
func (uc *UseCase) notifyOwner(ctx context.Context, tenant *domain.Tenant, appt *domain.Appointment) {
	if uc.notifier == nil {
		return
	}
	owner := notifier.Owner{
		BusinessName: tenant.Name,
		Email:        tenant.OwnerEmail,
		Phone:        tenant.OwnerPhone,
	}
	notifyCtx := context.WithoutCancel(ctx)
	go uc.notifier.NotifyNewBooking(notifyCtx, appt, owner)
}

type nopMetrics struct{}

func (nopMetrics) IncBookingCreated(string)  {}
func (nopMetrics) IncBookingConflict(string) {}

func toResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:              appt.ID,
		TenantID:        appt.TenantID,
		ResourceID:      appt.ResourceID,
		ServiceID:       appt.ServiceID,
		Start:           appt.Start,
		End:             appt.End,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		ServiceName:     appt.ServiceName,
		Price:           appt.Price,
		Deposit:         appt.Deposit,
		Balance:         appt.Balance,
		ClientName:      appt.ClientName,
		ClientPhone:     appt.ClientPhone,
		ClientID:        appt.ClientID,
		VehicleInfo:     appt.VehicleInfo,
		ClinicalNotes:   appt.ClinicalNotes,
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
