package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
)

const (
	msgInvalidTenantID      = "некорректный ID бизнеса"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgTenantNotFound       = "бизнес не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgResourceNotFound     = "ресурс не найден"
	msgServiceRequired      = "услуга не выбрана"
	msgNoResourceAvailable  = "нет доступных ресурсов"
	msgClientRequired       = "имя клиента обязательно"
	msgInvalidPhone         = "некорректный номер телефона клиента"
	msgInvalidDeposit       = "некорректная сумма предоплаты"
	msgCapabilityDisabled   = "функция недоступна для отрасли бизнеса"
	msgBookingInPast        = "время записи уже прошло"
	msgOutsideOpeningHours  = "выбранное время вне часов работы"
	msgInvalidRequestFields = "некорректные параметры записи"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/bookings - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/bookings - Failed to parse request: %v", err)
		if errors.Is(err, errParseTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, tenantID, &req, err)
		return
	}

	h.logger.Info("POST /tenants/{id}/bookings - Booking created successfully: appointment_id=%d, tenant_id=%d, resource_id=%d, status=%s",
		result.ID, tenantID, result.ResourceID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, tenantID int64, req *CreateBookingRequest, err error) {
	switch {
	case errors.Is(err, createBooking.ErrSlotNotAvailable):
		h.logger.Warn("POST /tenants/{id}/bookings - Slot not available: tenant_id=%d, service_id=%d, date=%s, start=%s",
			tenantID, req.ServiceID, req.Date, req.StartTime)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, createBooking.ErrTenantNotFound):
		h.logger.Warn("POST /tenants/{id}/bookings - Tenant not found: tenant_id=%d", tenantID)
		handlers.RespondNotFound(w, msgTenantNotFound)

	case errors.Is(err, createBooking.ErrServiceNotFound):
		h.logger.Warn("POST /tenants/{id}/bookings - Service not found: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createBooking.ErrResourceNotFound):
		h.logger.Warn("POST /tenants/{id}/bookings - Resource not found: tenant_id=%d", tenantID)
		handlers.RespondNotFound(w, msgResourceNotFound)

	case errors.Is(err, createBooking.ErrServiceRequired):
		h.logger.Warn("POST /tenants/{id}/bookings - Service required: tenant_id=%d", tenantID)
		handlers.RespondBadRequest(w, msgServiceRequired)

	case errors.Is(err, createBooking.ErrNoResourceAvailable):
		h.logger.Warn("POST /tenants/{id}/bookings - No resource available: tenant_id=%d", tenantID)
		handlers.RespondBadRequest(w, msgNoResourceAvailable)

	case errors.Is(err, createBooking.ErrClientRequired):
		h.logger.Warn("POST /tenants/{id}/bookings - Client required: tenant_id=%d", tenantID)
		handlers.RespondBadRequest(w, msgClientRequired)

	case errors.Is(err, createBooking.ErrInvalidPhone):
		h.logger.Warn("POST /tenants/{id}/bookings - Invalid phone: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondBadRequest(w, msgInvalidPhone)

	case errors.Is(err, createBooking.ErrInvalidDeposit):
		h.logger.Warn("POST /tenants/{id}/bookings - Invalid deposit: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondBadRequest(w, msgInvalidDeposit)

	case errors.Is(err, createBooking.ErrCapabilityDisabled):
		h.logger.Warn("POST /tenants/{id}/bookings - Capability disabled: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondBadRequest(w, msgCapabilityDisabled)

	case errors.Is(err, createBooking.ErrInvalidDate):
		h.logger.Warn("POST /tenants/{id}/bookings - Booking in the past: tenant_id=%d, date=%s, start=%s",
			tenantID, req.Date, req.StartTime)
		handlers.RespondBadRequest(w, msgBookingInPast)

	case errors.Is(err, createBooking.ErrOutsideOpeningHours):
		h.logger.Warn("POST /tenants/{id}/bookings - Outside opening hours: tenant_id=%d, date=%s, start=%s",
			tenantID, req.Date, req.StartTime)
		handlers.RespondBadRequest(w, msgOutsideOpeningHours)

	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("POST /tenants/{id}/bookings - Invalid input: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)

	default:
		h.logger.Error("POST /tenants/{id}/bookings - Failed to create booking: tenant_id=%d, service_id=%d, error=%v",
			tenantID, req.ServiceID, err)
		handlers.RespondInternalError(w)
	}
}
