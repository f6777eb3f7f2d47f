package client_history

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/service/appointments"
)

const (
	msgInvalidTenantID = "некорректный ID бизнеса"
	msgMissingName     = "имя клиента обязательно"
	msgTenantNotFound  = "бизнес не найден"
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

// Handle GET /api/v1/tenants/{tenantId}/clients/appointments?name=...
// История включает отмененные записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/clients/appointments - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		h.logger.Warn("GET /tenants/{id}/clients/appointments - Missing client name")
		handlers.RespondBadRequest(w, msgMissingName)
		return
	}

	result, err := h.service.ListByClient(r.Context(), tenantID, name)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingName)

		case errors.Is(err, appointments.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/clients/appointments - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("GET /tenants/{id}/clients/appointments - Failed to get history: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/clients/appointments - History retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
