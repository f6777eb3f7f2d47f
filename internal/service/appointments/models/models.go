package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListRangeRequest запрос записей за период (календарь)
type ListRangeRequest struct {
	TenantID         int64     `json:"tenantId"`
	From             time.Time `json:"from"` // Первый день периода
	To               time.Time `json:"to"`   // Последний день периода (включительно)
	ResourceID       *int64    `json:"resourceId,omitempty"`
	IncludeCancelled bool      `json:"includeCancelled,omitempty"`
}

// RescheduleRequest перенос или изменение длительности записи
type RescheduleRequest struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ResourceID *int64    `json:"resourceId,omitempty"` // nil - тот же ресурс
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными записи; время в часовом поясе бизнеса
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	TenantID        int64     `json:"tenantId"`
	ResourceID      int64     `json:"resourceId"`
	ServiceID       int64     `json:"serviceId"`
	Date            string    `json:"date"`      // "2025-10-15"
	StartTime       string    `json:"startTime"` // "10:00"
	EndTime         string    `json:"endTime"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`

	// Снимок услуги
	ServiceName string          `json:"serviceName"`
	Price       decimal.Decimal `json:"price"`
	Deposit     decimal.Decimal `json:"deposit"`
	Balance     decimal.Decimal `json:"balance"`

	ClientName    string  `json:"clientName"`
	ClientPhone   *string `json:"clientPhone,omitempty"`
	ClientID      *int64  `json:"clientId,omitempty"`
	VehicleInfo   *string `json:"vehicleInfo,omitempty"`
	ClinicalNotes *string `json:"clinicalNotes,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	IsRecurring        bool   `json:"isRecurring"`
	RecurrenceParentID *int64 `json:"recurrenceParentId,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO в часовом поясе loc
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}
	local := a.In(loc)

	resp := &AppointmentResponse{
		ID:                 local.ID,
		TenantID:           local.TenantID,
		ResourceID:         local.ResourceID,
		ServiceID:          local.ServiceID,
		Date:               local.Start.Format(domain.DateFormat),
		StartTime:          local.Start.Format(domain.TimeFormat),
		EndTime:            local.End.Format(domain.TimeFormat),
		Start:              local.Start,
		End:                local.End,
		DurationMinutes:    local.DurationMinutes,
		Status:             string(local.Status),
		ServiceName:        local.ServiceName,
		Price:              local.Price,
		Deposit:            local.Deposit,
		Balance:            local.Balance,
		ClientName:         local.ClientName,
		ClientPhone:        local.ClientPhone,
		ClientID:           local.ClientID,
		VehicleInfo:        local.VehicleInfo,
		ClinicalNotes:      local.ClinicalNotes,
		Notes:              local.Notes,
		IsRecurring:        local.IsRecurring,
		RecurrenceParentID: local.RecurrenceParentID,
		CancellationReason: local.CancellationReason,
		CreatedAt:          local.CreatedAt,
		UpdatedAt:          local.UpdatedAt,
	}

	if local.CancelledAt != nil {
		cancelledStr := local.CancelledAt.In(loc).Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appt := range appointments {
		if apptResp := FromDomainAppointment(appt, loc); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
