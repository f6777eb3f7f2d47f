package cancel_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AgendaService/internal/service/appointments"
	"github.com/m04kA/SMC-AgendaService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) Cancel(ctx context.Context, tenantID, id int64, req *models.CancelRequest) error {
	return m.Called(ctx, tenantID, id, req).Error(0)
}

func patch(h *Handler, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId}/cancel", h.Handle).Methods(http.MethodPatch)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body)))
	return w
}

func TestHandle_WithReason(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Cancel", mock.Anything, int64(1), int64(9), mock.MatchedBy(func(req *models.CancelRequest) bool {
		return req.Reason != nil && *req.Reason == "клиент заболел"
	})).Return(nil)

	w := patch(NewHandler(svc, logger.NewNop()), "/tenants/1/appointments/9/cancel",
		`{"cancellationReason":"  клиент заболел "}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandle_EmptyBody(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Cancel", mock.Anything, int64(1), int64(9), &models.CancelRequest{}).Return(nil)

	w := patch(NewHandler(svc, logger.NewNop()), "/tenants/1/appointments/9/cancel", "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{name: "terminal", err: appointments.ErrCannotCancel, wantStatus: http.StatusBadRequest},
		{name: "reason too long", err: appointments.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "concurrent update", err: appointments.ErrConcurrentUpdate, wantStatus: http.StatusConflict},
		{name: "internal", err: appointments.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &serviceMock{}
			svc.On("Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.err)

			w := patch(NewHandler(svc, logger.NewNop()), "/tenants/1/appointments/9/cancel", `{}`)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandle_InvalidIDs(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewNop())

	assert.Equal(t, http.StatusBadRequest, patch(h, "/tenants/x/appointments/9/cancel", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(h, "/tenants/1/appointments/0/cancel", `{}`).Code)
	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
