package get_tenant_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/service/tenants"
)

const (
	msgInvalidTenantID = "некорректный ID бизнеса"
	msgTenantNotFound  = "бизнес не найден"
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

// Handle GET /api/v1/tenants/{tenantId}/config
// Публичный endpoint - без авторизации, виджет записи берет отсюда часы работы и возможности отрасли
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/config - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.GetSettings(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, tenants.ErrTenantNotFound) {
			h.logger.Warn("GET /tenants/{id}/config - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)
			return
		}

		h.logger.Error("GET /tenants/{id}/config - Failed to get config: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/config - Config retrieved successfully: tenant_id=%d, sector=%s",
		tenantID, result.Sector)
	handlers.RespondJSON(w, http.StatusOK, result)
}
