package list_movements

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/service/ledger"
)

const (
	msgInvalidTenantID      = "некорректный ID бизнеса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidParams        = "некорректные параметры запроса"
)

type Handler struct {
	service LedgerService
	logger  Logger
}

func NewHandler(service LedgerService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/movements
// Query params: from, to (YYYY-MM-DD), type (income|expense), appointmentId - все опционально
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/movements - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	appointmentID, err := handlers.QueryID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/movements - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(tenantID, query.Get("from"), query.Get("to"), query.Get("type"), appointmentID)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/movements - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidInput) {
			h.logger.Warn("GET /tenants/{id}/movements - Invalid filter: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /tenants/{id}/movements - Failed to list movements: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/movements - Movements retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result.Movements))
	handlers.RespondJSON(w, http.StatusOK, result)
}
