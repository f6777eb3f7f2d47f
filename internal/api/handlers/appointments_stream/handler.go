package appointments_stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
)

const (
	msgInvalidTenantID    = "некорректный ID бизнеса"
	msgStreamNotSupported = "потоковая передача не поддерживается"

	defaultHeartbeat = 15 * time.Second
	streamBuffer     = 32
)

type Handler struct {
	subscriber Subscriber
	heartbeat  time.Duration
	logger     Logger
}

func NewHandler(subscriber Subscriber, logger Logger) *Handler {
	return &Handler{
		subscriber: subscriber,
		heartbeat:  defaultHeartbeat,
		logger:     logger,
	}
}

// WithHeartbeat меняет интервал keep-alive комментариев
func (h *Handler) WithHeartbeat(d time.Duration) *Handler {
	h.heartbeat = d
	return h
}

// Handle GET /api/v1/tenants/{tenantId}/appointments/stream
// Server-Sent Events: каждое изменение записи тенанта уходит отдельным сообщением.
// Поток только уведомляет календарь, доступность слотов всегда считается заново
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments/stream - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /tenants/{id}/appointments/stream - ResponseWriter does not support flushing")
		handlers.RespondError(w, http.StatusInternalServerError, msgStreamNotSupported)
		return
	}

	ctx := r.Context()
	userID, _ := middleware.GetUserID(ctx)

	// Обработчик подписки не должен блокировать шину: при переполнении событие теряется
	eventsCh := make(chan events.Event, streamBuffer)
	unsubscribe, err := h.subscriber.Subscribe(ctx, tenantID, func(event events.Event) {
		select {
		case eventsCh <- event:
		default:
			h.logger.Warn("GET /tenants/{id}/appointments/stream - Client is slow, dropping event: tenant_id=%d, event_id=%s",
				tenantID, event.ID)
		}
	})
	if err != nil {
		h.logger.Error("GET /tenants/{id}/appointments/stream - Failed to subscribe: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Info("GET /tenants/{id}/appointments/stream - Client subscribed: tenant_id=%d, user_id=%d", tenantID, userID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("GET /tenants/{id}/appointments/stream - Client disconnected: tenant_id=%d, user_id=%d",
				tenantID, userID)
			return

		case event := <-eventsCh:
			if err := writeEvent(w, event); err != nil {
				h.logger.Warn("GET /tenants/{id}/appointments/stream - Failed to write event: tenant_id=%d, error=%v",
					tenantID, err)
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, payload)
	return err
}
