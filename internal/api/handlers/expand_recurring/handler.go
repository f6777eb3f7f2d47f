package expand_recurring

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	expandRecurring "github.com/m04kA/SMC-AgendaService/internal/usecase/expand_recurring"
)

const (
	msgInvalidTenantID      = "некорректный ID бизнеса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidWeeks         = "некорректное количество недель"
	msgTenantNotFound       = "бизнес не найден"
	msgNotFound             = "запись не найдена"
	msgAppointmentCancelled = "отмененную запись нельзя повторить"
	msgCapabilityDisabled   = "повторяющиеся записи недоступны для отрасли бизнеса"
)

type Handler struct {
	useCase ExpandRecurringUseCase
	logger  Logger
}

func NewHandler(useCase ExpandRecurringUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/appointments/{appointmentId}/recurrences
// Частичный успех возвращается как 201 со списком failed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/recurrences - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/recurrences - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req ExpandRecurringRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/recurrences - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID, appointmentID))
	if err != nil {
		switch {
		case errors.Is(err, expandRecurring.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/recurrences - Invalid weeks: weeks=%d, error=%v", req.Weeks, err)
			handlers.RespondBadRequest(w, msgInvalidWeeks)

		case errors.Is(err, expandRecurring.ErrTenantNotFound):
			h.logger.Warn("POST /appointments/{id}/recurrences - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, expandRecurring.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/recurrences - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, expandRecurring.ErrAppointmentCancelled):
			h.logger.Warn("POST /appointments/{id}/recurrences - Appointment cancelled: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgAppointmentCancelled)

		case errors.Is(err, expandRecurring.ErrCapabilityDisabled):
			h.logger.Warn("POST /appointments/{id}/recurrences - Recurring disabled: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgCapabilityDisabled)

		default:
			h.logger.Error("POST /appointments/{id}/recurrences - Failed to expand appointment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/recurrences - Appointment expanded: appointment_id=%d, created=%d, failed=%d, user_id=%d",
		appointmentID, len(result.Created), len(result.Failed), userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
