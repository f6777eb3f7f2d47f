package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// ErrInvalidType возвращается при неизвестном типе движения
var ErrInvalidType = errors.New("invalid movement type")

// ListRequest запрос движений по счету
type ListRequest struct {
	TenantID      int64      `json:"tenantId"`
	From          *time.Time `json:"from,omitempty"`
	To            *time.Time `json:"to,omitempty"`
	Type          *string    `json:"type,omitempty"` // income | expense
	AppointmentID *int64     `json:"appointmentId,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.MovementsFilter, error) {
	filter := domain.MovementsFilter{
		TenantID:      r.TenantID,
		From:          r.From,
		To:            r.To,
		AppointmentID: r.AppointmentID,
	}

	if r.Type != nil {
		t := domain.MovementType(*r.Type)
		if t != domain.MovementIncome && t != domain.MovementExpense {
			return filter, ErrInvalidType
		}
		filter.Type = &t
	}

	return filter, nil
}

// MovementResponse движение по счету
type MovementResponse struct {
	ID            int64           `json:"id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Date          time.Time       `json:"date"`
	AppointmentID *int64          `json:"appointmentId,omitempty"`
}

// MovementListResponse список движений с итогами
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Income    decimal.Decimal    `json:"income"`
	Expense   decimal.Decimal    `json:"expense"`
}

// FromDomainMovements конвертирует список движений в DTO и считает итоги
func FromDomainMovements(movements []*domain.Movement) *MovementListResponse {
	resp := &MovementListResponse{
		Movements: make([]MovementResponse, 0, len(movements)),
		Income:    decimal.Zero,
		Expense:   decimal.Zero,
	}

	for _, m := range movements {
		resp.Movements = append(resp.Movements, MovementResponse{
			ID:            m.ID,
			Description:   m.Description,
			Amount:        m.Amount,
			Type:          string(m.Type),
			Date:          m.Date,
			AppointmentID: m.AppointmentID,
		})
		switch m.Type {
		case domain.MovementIncome:
			resp.Income = resp.Income.Add(m.Amount)
		case domain.MovementExpense:
			resp.Expense = resp.Expense.Add(m.Amount)
		}
	}

	return resp
}
