package record_payment

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	tenantRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AgendaService/pkg/tracing"
)

const tracerName = "usecase/record_payment"

// UseCase use case для записи платежа по записи
type UseCase struct {
	tenantRepo      TenantRepository
	appointmentRepo AppointmentRepository
	movementRepo    MovementRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	appointmentRepo AppointmentRepository,
	movementRepo MovementRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:      tenantRepo,
		appointmentRepo: appointmentRepo,
		movementRepo:    movementRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
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
// Обновление записи и движение по счету выполняются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracing.Start(ctx, tracerName, "RecordPayment",
		attribute.Int64("tenant.id", req.TenantID),
		attribute.Int64("appointment.id", req.AppointmentID),
	)
	defer span.End()

	uc.logger.Info("RecordPayment: tenant=%d, appointment=%d, amount=%s", req.TenantID, req.AppointmentID, req.Amount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RecordPayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Возможности бизнеса
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("RecordPayment: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("RecordPayment: failed to get tenant id=%d: %v", req.TenantID, err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	caps := tenant.Capabilities()

	now := uc.timeProvider.Now()
	var (
		updated  *domain.Appointment
		movement *domain.Movement
	)

	// 3. Блокируем запись, применяем платеж и пишем движение
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.TenantID, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RecordPayment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RecordPayment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if err := validatePayment(appt, req, caps); err != nil {
			uc.logger.Warn("RecordPayment: appointment id=%d: %v", appt.ID, err)
			return err
		}

		appt.ApplyPayment(req.Amount)

		if err := uc.appointmentRepo.Update(txCtx, appt); err != nil {
			uc.logger.Error("RecordPayment: failed to update appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		movement, err = uc.movementRepo.Create(txCtx, &domain.Movement{
			TenantID:      appt.TenantID,
			Description:   fmt.Sprintf("Payment: %s — %s", appt.ServiceName, appt.ClientName),
			Amount:        req.Amount,
			Type:          domain.MovementIncome,
			Date:          now,
			AppointmentID: &appt.ID,
		})
		if err != nil {
			uc.logger.Error("RecordPayment: failed to create movement for appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to create movement: %v", ErrInternal, err)
		}

		updated = appt
		return nil
	})
	if err != nil {
		if isKnown(err) {
			return nil, err
		}
		uc.logger.Error("RecordPayment: transaction failed: %v", err)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.IncPaymentRecorded(string(updated.Status))
	}

	uc.logger.Info("RecordPayment: appointment id=%d is %s, balance=%s", updated.ID, updated.Status, updated.Balance)

	if uc.publisher != nil {
		event := events.NewEvent(domain.EventAppointmentUpdated, updated, now)
		if err := uc.publisher.Publish(ctx, event); err != nil {
			uc.logger.Warn("RecordPayment: failed to publish event for appointment id=%d: %v", updated.ID, err)
		}
	}

	return &Response{
		AppointmentID: updated.ID,
		MovementID:    movement.ID,
		Price:         updated.Price,
		Deposit:       updated.Deposit,
		Balance:       updated.Balance,
		Status:        string(updated.Status),
		PaidAt:        now,
	}, nil
}

func isKnown(err error) bool {
	for _, known := range []error{
		ErrAppointmentNotFound, ErrPaymentNotAllowed, ErrInvalidAmount, ErrCapabilityDisabled, ErrInternal,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
