package list_services

import (
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
)

const msgInvalidTenantID = "некорректный ID бизнеса"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/services - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.GetServices(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /tenants/{id}/services - Failed to list services: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/services - Services retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}
