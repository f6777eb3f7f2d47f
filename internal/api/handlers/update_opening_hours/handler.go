package update_opening_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/tenants"
	"github.com/m04kA/SMC-AgendaService/internal/service/tenants/models"
)

const (
	msgInvalidTenantID    = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHours       = "некорректные часы работы"
	msgTenantNotFound     = "бизнес не найден"
)

type Handler struct {
	service TenantService
	logger  Logger
}

func NewHandler(service TenantService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tenants/{tenantId}/config/opening-hours
// Тело: {"openingHours": {"1": {"isOpen": true, "start": "09:00", "end": "18:00"}, ...}}, 0 - воскресенье
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("PUT /tenants/{id}/config/opening-hours - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req models.UpdateOpeningHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{id}/config/opening-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.service.UpdateOpeningHours(r.Context(), tenantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, tenants.ErrInvalidInput):
			h.logger.Warn("PUT /tenants/{id}/config/opening-hours - Invalid opening hours: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidHours)

		case errors.Is(err, tenants.ErrTenantNotFound):
			h.logger.Warn("PUT /tenants/{id}/config/opening-hours - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("PUT /tenants/{id}/config/opening-hours - Failed to update opening hours: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tenants/{id}/config/opening-hours - Opening hours updated successfully: tenant_id=%d, user_id=%d",
		tenantID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
