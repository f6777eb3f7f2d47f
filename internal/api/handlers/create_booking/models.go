package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	createBooking "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

var (
	errParseDate = errors.New("invalid date")
	errParseTime = errors.New("invalid start time")
)

// ClientRequest контакты клиента
type ClientRequest struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	ClientID *int64  `json:"clientId,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     int64               `json:"serviceId"`
	ResourceID    *int64              `json:"resourceId,omitempty"`
	Date          string              `json:"date"`      // "2026-10-19"
	StartTime     string              `json:"startTime"` // "10:00"
	Client        ClientRequest       `json:"client"`
	Deposit       decimal.NullDecimal `json:"deposit"`
	VehicleInfo   *string             `json:"vehicleInfo,omitempty"`
	ClinicalNotes *string             `json:"clinicalNotes,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64           `json:"id"`
	TenantID        int64           `json:"tenantId"`
	ResourceID      int64           `json:"resourceId"`
	ServiceID       int64           `json:"serviceId"`
	Date            string          `json:"date"`
	StartTime       string          `json:"startTime"`
	EndTime         string          `json:"endTime"`
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	DurationMinutes int             `json:"durationMinutes"`
	Status          string          `json:"status"`
	ServiceName     string          `json:"serviceName"`
	Price           decimal.Decimal `json:"price"`
	Deposit         decimal.Decimal `json:"deposit"`
	Balance         decimal.Decimal `json:"balance"`
	ClientName      string          `json:"clientName"`
	ClientPhone     *string         `json:"clientPhone,omitempty"`
	ClientID        *int64          `json:"clientId,omitempty"`
	VehicleInfo     *string         `json:"vehicleInfo,omitempty"`
	ClinicalNotes   *string         `json:"clinicalNotes,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errParseDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errParseTime, err)
	}

	deposit := decimal.Zero
	if r.Deposit.Valid {
		deposit = r.Deposit.Decimal
	}

	return &createBooking.Request{
		TenantID:   tenantID,
		ServiceID:  r.ServiceID,
		ResourceID: r.ResourceID,
		Date:       date,
		StartTime:  startTime,
		Client: createBooking.Client{
			Name:     r.Client.Name,
			Phone:    r.Client.Phone,
			ClientID: r.Client.ClientID,
		},
		Deposit:       deposit,
		VehicleInfo:   r.VehicleInfo,
		ClinicalNotes: r.ClinicalNotes,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
// Start и End уже в часовом поясе бизнеса
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		TenantID:        resp.TenantID,
		ResourceID:      resp.ResourceID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Start.Format(domain.DateFormat),
		StartTime:       resp.Start.Format(domain.TimeFormat),
		EndTime:         resp.End.Format(domain.TimeFormat),
		Start:           resp.Start,
		End:             resp.End,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		Price:           resp.Price,
		Deposit:         resp.Deposit,
		Balance:         resp.Balance,
		ClientName:      resp.ClientName,
		ClientPhone:     resp.ClientPhone,
		ClientID:        resp.ClientID,
		VehicleInfo:     resp.VehicleInfo,
		ClinicalNotes:   resp.ClinicalNotes,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
