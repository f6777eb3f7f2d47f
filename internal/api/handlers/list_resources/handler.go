package list_resources

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

// Handle GET /api/v1/tenants/{tenantId}/resources
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/resources - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.GetResources(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /tenants/{id}/resources - Failed to list resources: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/resources - Resources retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result.Resources))
	handlers.RespondJSON(w, http.StatusOK, result)
}
