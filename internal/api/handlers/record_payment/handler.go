package record_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	recordPayment "github.com/m04kA/SMC-AgendaService/internal/usecase/record_payment"
)

const (
	msgInvalidTenantID      = "некорректный ID бизнеса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgTenantNotFound       = "бизнес не найден"
	msgNotFound             = "запись не найдена"
	msgPaymentNotAllowed    = "запись не принимает оплату"
	msgInvalidAmount        = "некорректная сумма платежа"
	msgCapabilityDisabled   = "частичная оплата недоступна для отрасли бизнеса"
)

type Handler struct {
	useCase RecordPaymentUseCase
	logger  Logger
}

func NewHandler(useCase RecordPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/appointments/{appointmentId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/payments - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/payments - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RecordPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID, appointmentID))
	if err != nil {
		switch {
		case errors.Is(err, recordPayment.ErrTenantNotFound):
			h.logger.Warn("POST /appointments/{id}/payments - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, recordPayment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/payments - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, recordPayment.ErrPaymentNotAllowed):
			h.logger.Warn("POST /appointments/{id}/payments - Payment not allowed: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgPaymentNotAllowed)

		case errors.Is(err, recordPayment.ErrInvalidAmount), errors.Is(err, recordPayment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/payments - Invalid amount: appointment_id=%d, amount=%s, error=%v",
				appointmentID, req.Amount, err)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, recordPayment.ErrCapabilityDisabled):
			h.logger.Warn("POST /appointments/{id}/payments - Partial payment disabled: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgCapabilityDisabled)

		default:
			h.logger.Error("POST /appointments/{id}/payments - Failed to record payment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/payments - Payment recorded successfully: appointment_id=%d, amount=%s, status=%s, user_id=%d",
		appointmentID, req.Amount, result.Status, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
