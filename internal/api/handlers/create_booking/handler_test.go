package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	createBooking "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

func post(h *Handler, tenant, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/bookings", h.Handle).Methods(http.MethodPost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tenants/"+tenant+"/bookings", strings.NewReader(body)))
	return w
}

const validBody = `{
	"serviceId": 10,
	"date": "2026-10-19",
	"startTime": "10:00",
	"client": {"name": "Anna", "phone": "+79123456789"},
	"deposit": "500.00"
}`

func TestHandle_Created(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, moscow)

	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.TenantID == 1 &&
			req.ServiceID == 10 &&
			req.ResourceID == nil &&
			req.StartTime.String() == "10:00" &&
			req.Client.Name == "Anna" &&
			req.Deposit.Equal(decimal.RequireFromString("500"))
	})).Return(&createBooking.Response{
		ID:              7,
		TenantID:        1,
		ResourceID:      2,
		ServiceID:       10,
		Start:           start,
		End:             start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          "partial",
		Price:           decimal.RequireFromString("1500"),
		Deposit:         decimal.RequireFromString("500"),
		Balance:         decimal.RequireFromString("1000"),
		ClientName:      "Anna",
	}, nil)

	w := post(NewHandler(uc, logger.NewNop()), "1", validBody)

	require.Equal(t, http.StatusCreated, w.Code)
	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "2026-10-19", body.Date)
	assert.Equal(t, "10:00", body.StartTime)
	assert.Equal(t, "11:00", body.EndTime)
	assert.Equal(t, "partial", body.Status)
	assert.True(t, body.Balance.Equal(decimal.RequireFromString("1000")))
	uc.AssertExpectations(t)
}

func TestHandle_DepositOptional(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.Deposit.IsZero()
	})).Return(nil, createBooking.ErrSlotNotAvailable)

	w := post(NewHandler(uc, logger.NewNop()), "1",
		`{"serviceId":10,"date":"2026-10-19","startTime":"10:00","client":{"name":"Anna"}}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	uc.AssertExpectations(t)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		tenant  string
		body    string
		wantMsg string
	}{
		{name: "tenant", tenant: "abc", body: validBody, wantMsg: msgInvalidTenantID},
		{name: "body", tenant: "1", body: `{"serviceId":`, wantMsg: msgInvalidRequestBody},
		{name: "unknown field", tenant: "1", body: `{"userId":1}`, wantMsg: msgInvalidRequestBody},
		{name: "date", tenant: "1", body: `{"serviceId":10,"date":"19.10.2026","startTime":"10:00"}`, wantMsg: msgInvalidDate},
		{name: "time", tenant: "1", body: `{"serviceId":10,"date":"2026-10-19","startTime":"25:99"}`, wantMsg: msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &useCaseMock{}
			w := post(NewHandler(uc, logger.NewNop()), tt.tenant, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: createBooking.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{err: createBooking.ErrTenantNotFound, wantStatus: http.StatusNotFound},
		{err: createBooking.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{err: createBooking.ErrResourceNotFound, wantStatus: http.StatusNotFound},
		{err: createBooking.ErrServiceRequired, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrNoResourceAvailable, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrClientRequired, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrInvalidPhone, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrInvalidDeposit, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrCapabilityDisabled, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrOutsideOpeningHours, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{err: errors.Join(createBooking.ErrInternal, errors.New("db down")), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &useCaseMock{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := post(NewHandler(uc, logger.NewNop()), "1", validBody)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
