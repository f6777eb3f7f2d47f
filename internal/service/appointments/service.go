package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AgendaService/internal/infra/storage/pgerr"
	tenantRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AgendaService/internal/scheduling"
	"github.com/m04kA/SMC-AgendaService/internal/service/appointments/models"
)

// Service сервис для работы с записями тенанта
type Service struct {
	appointmentRepo AppointmentRepository
	tenantRepo      TenantRepository
	resourceRepo    ResourceRepository
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	tenantRepo TenantRepository,
	resourceRepo ResourceRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		tenantRepo:      tenantRepo,
		resourceRepo:    resourceRepo,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for tenant=%d", id, tenantID)

	loc, err := s.location(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt, loc), nil
}

// ListRange получает записи тенанта за период по календарным дням бизнеса
// Используется календарем; один запрос по диапазону start_time
func (s *Service) ListRange(ctx context.Context, req *models.ListRangeRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListRange: fetching appointments for tenant=%d, period=%s to %s, includeCancelled=%t",
		req.TenantID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.IncludeCancelled)

	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	loc, err := s.location(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	from, _ := domain.DayBounds(domain.LocalDate(req.From, loc))
	_, to := domain.DayBounds(domain.LocalDate(req.To, loc))
	if to.Before(from) {
		s.logger.Warn("ListRange: invalid period %s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
		return nil, ErrInvalidTimeRange
	}

	appointments, err := s.appointmentRepo.GetByTenantWithFilter(ctx, domain.AppointmentsFilter{
		TenantID:         req.TenantID,
		From:             &from,
		To:               &to,
		ResourceID:       req.ResourceID,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("ListRange: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ListRange - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListRange: successfully fetched %d appointments for tenant=%d", len(appointments), req.TenantID)
	return models.FromDomainAppointmentList(appointments, loc), nil
}

// ListByClient получает историю записей клиента (совпадение имени без учета регистра)
func (s *Service) ListByClient(ctx context.Context, tenantID int64, clientName string) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByClient: fetching appointments for tenant=%d, client=%q", tenantID, clientName)

	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}

	loc, err := s.location(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByTenantWithFilter(ctx, domain.AppointmentsFilter{
		TenantID:         tenantID,
		ClientName:       &clientName,
		IncludeCancelled: true,
	})
	if err != nil {
		s.logger.Error("ListByClient: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByClient: successfully fetched %d appointments for tenant=%d", len(appointments), tenantID)
	return models.FromDomainAppointmentList(appointments, loc), nil
}

// Reschedule переносит запись (drag) или меняет её длительность (resize)
// Пересечения проверяются на целевом ресурсе без учета самой записи
func (s *Service) Reschedule(ctx context.Context, tenantID, id int64, req *models.RescheduleRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Reschedule: moving appointment id=%d of tenant=%d to %s-%s",
		id, tenantID, req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))

	if req.Start.IsZero() || !req.Start.Before(req.End) {
		s.logger.Warn("Reschedule: invalid range for appointment id=%d", id)
		return nil, ErrInvalidTimeRange
	}
	if req.End.Sub(req.Start) > domain.MaxServiceDurationMinutes*time.Minute {
		return nil, fmt.Errorf("%w: duration exceeds %d minutes", ErrInvalidTimeRange, domain.MaxServiceDurationMinutes)
	}

	loc, err := s.location(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.ResourceID != nil {
		if _, err := s.resourceRepo.GetResourceByID(ctx, tenantID, *req.ResourceID); err != nil {
			if errors.Is(err, catalogRepo.ErrResourceNotFound) {
				s.logger.Warn("Reschedule: resource id=%d not found", *req.ResourceID)
				return nil, ErrResourceNotFound
			}
			s.logger.Error("Reschedule: failed to get resource id=%d: %v", *req.ResourceID, err)
			return nil, fmt.Errorf("%w: Reschedule - resource error: %v", ErrInternal, err)
		}
	}

	var updated *domain.Appointment

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем запись
		appt, err := s.appointmentRepo.GetByID(txCtx, tenantID, id)
		if err != nil {
			return s.mapRepoError("Reschedule", id, err)
		}

		if appt.IsTerminal() {
			s.logger.Warn("Reschedule: appointment id=%d is %s", id, appt.Status)
			return ErrCannotReschedule
		}

		resourceID := appt.ResourceID
		if req.ResourceID != nil {
			resourceID = *req.ResourceID
		}

		// 2. Записи целевого ресурса, которые могут пересечься с новым интервалом
		from := req.Start.Add(-domain.MaxServiceDurationMinutes * time.Minute)
		to := req.End
		existing, err := s.appointmentRepo.GetByTenantWithFilter(txCtx, domain.AppointmentsFilter{
			TenantID:   tenantID,
			From:       &from,
			To:         &to,
			ResourceID: &resourceID,
			ForUpdate:  true,
		})
		if err != nil {
			s.logger.Error("Reschedule: repository error for tenant=%d: %v", tenantID, err)
			return fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
		}

		candidate := domain.Interval{Start: req.Start, End: req.End}
		if scheduling.IsBusy(candidate, excludeSelf(existing, id), scheduling.Specific(resourceID)) {
			s.logger.Warn("Reschedule: resource=%d is busy at %s", resourceID, req.Start.In(loc).Format(time.RFC3339))
			return ErrSlotNotAvailable
		}

		// 3. Сохраняем
		appt.ResourceID = resourceID
		appt.Start = req.Start
		appt.End = req.End
		appt.DurationMinutes = int(req.End.Sub(req.Start) / time.Minute)

		if err := s.appointmentRepo.Update(txCtx, appt); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) || errors.Is(err, appointmentRepo.ErrSerialization) {
				return ErrSlotNotAvailable
			}
			return s.mapRepoError("Reschedule", id, err)
		}

		updated = appt
		return nil
	})
	if err != nil {
		if pgerr.IsSerializationFailure(err) {
			return nil, ErrSlotNotAvailable
		}
		if isServiceError(err) {
			return nil, err
		}
		s.logger.Error("Reschedule: transaction failed for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Reschedule - transaction error: %v", ErrInternal, err)
	}

	s.publish(ctx, domain.EventAppointmentUpdated, updated)

	s.logger.Info("Reschedule: successfully moved appointment id=%d to resource=%d", id, updated.ResourceID)
	return models.FromDomainAppointment(updated, loc), nil
}

// UpdateStatus меняет статус записи (confirmed, completed)
// paid выставляется только записью платежа, cancelled только через Cancel
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", id, req.Status)

	status, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return ErrInvalidStatus
	}
	if status != domain.StatusConfirmed && status != domain.StatusCompleted {
		s.logger.Warn("UpdateStatus: status=%s cannot be set directly", status)
		return ErrInvalidTransition
	}

	var updated *domain.Appointment

	// Чтение с блокировкой и запись в одной транзакции: параллельные Cancel/UpdateStatus не проходят оба
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, tenantID, id)
		if err != nil {
			return s.mapRepoError("UpdateStatus", id, err)
		}

		if !appt.CanTransitionTo(status) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d", appt.Status, status, id)
			return ErrInvalidTransition
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, tenantID, id, status); err != nil {
			return s.mapRepoError("UpdateStatus", id, err)
		}

		appt.Status = status
		updated = appt
		return nil
	})
	if err != nil {
		return s.mapTxError("UpdateStatus", id, err)
	}

	s.publish(ctx, domain.EventAppointmentUpdated, updated)

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, status)
	return nil
}

// Cancel мягко отменяет запись, слот освобождается
func (s *Service) Cancel(ctx context.Context, tenantID, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d of tenant=%d", id, tenantID)

	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var cancelled *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, tenantID, id)
		if err != nil {
			return s.mapRepoError("Cancel", id, err)
		}

		if !appt.CanTransitionTo(domain.StatusCancelled) {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, tenantID, id, req.Reason); err != nil {
			return s.mapRepoError("Cancel", id, err)
		}

		now := s.timeProvider.Now()
		appt.Status = domain.StatusCancelled
		appt.CancellationReason = req.Reason
		appt.CancelledAt = &now
		cancelled = appt
		return nil
	})
	if err != nil {
		return s.mapTxError("Cancel", id, err)
	}

	s.publish(ctx, domain.EventAppointmentCancelled, cancelled)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// Delete удаляет запись; движения по счету остаются
func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	s.logger.Info("Delete: deleting appointment id=%d of tenant=%d", id, tenantID)

	if err := s.appointmentRepo.Delete(ctx, tenantID, id); err != nil {
		return s.mapRepoError("Delete", id, err)
	}

	s.publish(ctx, domain.EventAppointmentDeleted, &domain.Appointment{ID: id, TenantID: tenantID})

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	return nil
}

func (s *Service) location(ctx context.Context, tenantID int64) (*time.Location, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("tenant id=%d not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("failed to get tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: tenant repository error: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		s.logger.Error("tenant id=%d has invalid timezone: %v", tenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return loc, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d not found", op, id)
		return ErrAppointmentNotFound
	}
	// serialization failure разбирается уровнем транзакции
	if errors.Is(err, appointmentRepo.ErrSerialization) {
		return err
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) publish(ctx context.Context, eventType string, appt *domain.Appointment) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, appt, s.timeProvider.Now())); err != nil {
		s.logger.Warn("failed to publish %s for appointment id=%d: %v", eventType, appt.ID, err)
	}
}

func excludeSelf(appointments []*domain.Appointment, id int64) []*domain.Appointment {
	result := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ID != id {
			result = append(result, a)
		}
	}
	return result
}

// mapTxError переводит ошибку транзакции смены статуса в ошибку сервиса
func (s *Service) mapTxError(op string, id int64, err error) error {
	if pgerr.IsSerializationFailure(err) || errors.Is(err, appointmentRepo.ErrSerialization) {
		s.logger.Warn("%s: appointment id=%d was modified concurrently", op, id)
		return ErrConcurrentUpdate
	}
	if isServiceError(err) {
		return err
	}
	s.logger.Error("%s: transaction failed for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - transaction error: %v", ErrInternal, op, err)
}

func isServiceError(err error) bool {
	for _, known := range []error{
		ErrAppointmentNotFound, ErrCannotReschedule, ErrCannotCancel, ErrInvalidTransition, ErrSlotNotAvailable, ErrInternal,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
