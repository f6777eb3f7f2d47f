package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// DaySchedule часы работы на день недели
type DaySchedule struct {
	IsOpen bool   `json:"isOpen"`
	Start  string `json:"start,omitempty"` // "09:00"
	End    string `json:"end,omitempty"`   // "18:00"
}

// UpdateOpeningHoursRequest часы работы по дням недели (0 - воскресенье)
// Отсутствующий день считается выходным
type UpdateOpeningHoursRequest struct {
	OpeningHours map[int]DaySchedule `json:"openingHours"`
}

// ToDomain конвертирует запрос в domain.OpeningHours с нормализацией времени
func (r *UpdateOpeningHoursRequest) ToDomain() (domain.OpeningHours, error) {
	hours := make(domain.OpeningHours, len(r.OpeningHours))
	for day, schedule := range r.OpeningHours {
		weekday := time.Weekday(day)
		if weekday < time.Sunday || weekday > time.Saturday {
			return nil, fmt.Errorf("unknown weekday %d", day)
		}
		if !schedule.IsOpen {
			hours[weekday] = domain.DaySchedule{IsOpen: false}
			continue
		}

		start, err := types.NewTimeStringFromString(schedule.Start)
		if err != nil {
			return nil, fmt.Errorf("%s start: %w", weekday, err)
		}
		end, err := types.NewTimeStringFromString(schedule.End)
		if err != nil {
			return nil, fmt.Errorf("%s end: %w", weekday, err)
		}
		hours[weekday] = domain.DaySchedule{IsOpen: true, Start: start, End: end}
	}
	return hours, nil
}

// SettingsResponse настройки бизнеса, нужные клиенту записи
type SettingsResponse struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Sector       string              `json:"sector"`
	Timezone     string              `json:"timezone"`
	Capabilities domain.Capabilities `json:"capabilities"`
	OpeningHours map[int]DaySchedule `json:"openingHours"`
}

// FromDomainTenant конвертирует domain модель в DTO
func FromDomainTenant(t *domain.Tenant) *SettingsResponse {
	if t == nil {
		return nil
	}

	resp := &SettingsResponse{
		ID:           t.ID,
		Name:         t.Name,
		Sector:       string(t.Sector),
		Timezone:     t.Timezone,
		Capabilities: t.Capabilities(),
		OpeningHours: make(map[int]DaySchedule, 7),
	}

	for day := time.Sunday; day <= time.Saturday; day++ {
		schedule, ok := t.OpeningHours[day]
		if !ok || !schedule.IsOpen {
			resp.OpeningHours[int(day)] = DaySchedule{IsOpen: false}
			continue
		}
		resp.OpeningHours[int(day)] = DaySchedule{
			IsOpen: true,
			Start:  schedule.Start.String(),
			End:    schedule.End.String(),
		}
	}

	return resp
}
