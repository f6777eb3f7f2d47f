package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-AgendaService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*getAvailableSlots.Response)
	return resp, args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/available-slots", h.Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_OK(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
		return req.TenantID == 1 && req.ServiceID == 10 && req.ResourceID != nil && *req.ResourceID == 3 &&
			req.Date.Format("2006-01-02") == "2026-10-19"
	})).Return(&getAvailableSlots.Response{
		Date:      time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		TenantID:  1,
		ServiceID: 10,
		Slots:     []string{"09:00", "09:30"},
	}, nil)

	w := serve(NewHandler(uc, logger.NewNop()), "/tenants/1/available-slots?serviceId=10&resourceId=3&date=2026-10-19")

	require.Equal(t, http.StatusOK, w.Code)
	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-19", body.Date)
	assert.Equal(t, []string{"09:00", "09:30"}, body.Slots)
	uc.AssertExpectations(t)
}

func TestHandle_EmptySlotsIsArray(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&getAvailableSlots.Response{
		Date: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
	}, nil)

	w := serve(NewHandler(uc, logger.NewNop()), "/tenants/1/available-slots?serviceId=10&date=2026-10-18")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slots":[]`)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "tenant id", target: "/tenants/x/available-slots?serviceId=1&date=2026-10-19"},
		{name: "service id", target: "/tenants/1/available-slots?serviceId=abc&date=2026-10-19"},
		{name: "resource id", target: "/tenants/1/available-slots?serviceId=1&resourceId=-1&date=2026-10-19"},
		{name: "missing date", target: "/tenants/1/available-slots?serviceId=1"},
		{name: "bad date", target: "/tenants/1/available-slots?serviceId=1&date=19.10.2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &useCaseMock{}
			w := serve(NewHandler(uc, logger.NewNop()), tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "service required", err: getAvailableSlots.ErrServiceRequired, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: getAvailableSlots.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "tenant", err: getAvailableSlots.ErrTenantNotFound, wantStatus: http.StatusNotFound},
		{name: "service", err: getAvailableSlots.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "resource", err: getAvailableSlots.ErrResourceNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", err: fmt.Errorf("%w: boom", getAvailableSlots.ErrInternal), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &useCaseMock{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(NewHandler(uc, logger.NewNop()), "/tenants/1/available-slots?date=2026-10-19")

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
