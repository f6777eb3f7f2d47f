package delete_movement

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/ledger"
)

const (
	msgInvalidTenantID   = "некорректный ID бизнеса"
	msgInvalidMovementID = "некорректный ID движения"
	msgNotFound          = "движение не найдено"
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

// Handle DELETE /api/v1/tenants/{tenantId}/movements/{movementId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("DELETE /movements/{id} - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	movementID, err := handlers.PathID(r, "movementId")
	if err != nil {
		h.logger.Warn("DELETE /movements/{id} - Invalid movement ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMovementID)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), tenantID, movementID); err != nil {
		if errors.Is(err, ledger.ErrMovementNotFound) {
			h.logger.Warn("DELETE /movements/{id} - Movement not found: movement_id=%d", movementID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /movements/{id} - Failed to delete movement: movement_id=%d, error=%v", movementID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /movements/{id} - Movement deleted successfully: movement_id=%d, user_id=%d", movementID, userID)
	w.WriteHeader(http.StatusNoContent)
}
