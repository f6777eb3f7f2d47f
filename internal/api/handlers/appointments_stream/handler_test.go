package appointments_stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

func TestHandle_StreamsTenantEvents(t *testing.T) {
	log := logger.NewNop()
	broker := events.NewBroker(log)

	router := mux.NewRouter()
	router.HandleFunc("/tenants/{tenantId}/appointments/stream", NewHandler(broker, log).Handle)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/tenants/1/appointments/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return broker.Subscribers(1) == 1 }, 2*time.Second, 10*time.Millisecond)

	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	other := events.NewEvent(domain.EventAppointmentCreated, &domain.Appointment{ID: 99, TenantID: 2, Start: start}, start)
	own := events.NewEvent(domain.EventAppointmentCreated, &domain.Appointment{ID: 5, TenantID: 1, Start: start}, start)
	require.NoError(t, broker.Publish(ctx, other))
	require.NoError(t, broker.Publish(ctx, own))

	reader := bufio.NewReader(resp.Body)
	var eventLine, dataLine string
	for dataLine == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		switch {
		case strings.HasPrefix(line, "event: "):
			eventLine = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			dataLine = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}

	assert.Equal(t, domain.EventAppointmentCreated, eventLine)
	var got events.Event
	require.NoError(t, json.Unmarshal([]byte(dataLine), &got))
	assert.Equal(t, int64(5), got.AppointmentID)
	assert.Equal(t, int64(1), got.TenantID)
}

func TestHandle_UnsubscribesOnDisconnect(t *testing.T) {
	log := logger.NewNop()
	broker := events.NewBroker(log)

	router := mux.NewRouter()
	router.HandleFunc("/tenants/{tenantId}/appointments/stream", NewHandler(broker, log).Handle)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/tenants/3/appointments/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return broker.Subscribers(3) == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	resp.Body.Close()

	assert.Eventually(t, func() bool { return broker.Subscribers(3) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandle_InvalidTenant(t *testing.T) {
	log := logger.NewNop()
	router := mux.NewRouter()
	router.HandleFunc("/tenants/{tenantId}/appointments/stream", NewHandler(events.NewBroker(log), log).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tenants/zero/appointments/stream", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
