package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/service/appointments"
)

const (
	msgInvalidTenantID   = "некорректный ID бизнеса"
	msgInvalidResourceID = "некорректный ID ресурса"
	msgMissingFrom       = "начало периода (from) обязательно"
	msgInvalidParams     = "некорректные параметры запроса"
	msgInvalidRange      = "конец периода раньше начала"
	msgTenantNotFound    = "бизнес не найден"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/appointments
// Query params: from (required, YYYY-MM-DD), to (опционально), resourceId (опционально), includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	resourceID, err := handlers.QueryID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()
	fromStr := query.Get("from")
	if fromStr == "" {
		h.logger.Warn("GET /tenants/{id}/appointments - Missing from")
		handlers.RespondBadRequest(w, msgMissingFrom)
		return
	}

	serviceReq, err := ToServiceRequest(tenantID, fromStr, query.Get("to"), resourceID, query.Get("includeCancelled"))
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListRange(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidTimeRange):
			h.logger.Warn("GET /tenants/{id}/appointments - Invalid range: tenant_id=%d, from=%s, to=%s",
				tenantID, fromStr, query.Get("to"))
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, appointments.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/appointments - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("GET /tenants/{id}/appointments - Failed to list appointments: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/appointments - Appointments retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
