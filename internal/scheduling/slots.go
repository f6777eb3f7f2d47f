package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// GenerateSlots генерирует кандидатов на начало записи внутри интервала работы
// Кандидат попадает в список, только если start+duration <= interval.End
// Если длительность больше интервала, результат пустой
func GenerateSlots(interval domain.Interval, durationMinutes, stepMinutes int) []time.Time {
	if durationMinutes <= 0 || interval.IsEmpty() {
		return []time.Time{}
	}
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(stepMinutes) * time.Minute

	slots := make([]time.Time, 0)
	for current := interval.Start; current.Before(interval.End); current = current.Add(step) {
		if current.Add(duration).After(interval.End) {
			break
		}
		slots = append(slots, current)
	}

	return slots
}

// FormatSlots форматирует моменты времени как HH:MM в их локации
func FormatSlots(slots []time.Time) []string {
	result := make([]string, len(slots))
	for i, slot := range slots {
		result[i] = slot.Format(domain.TimeFormat)
	}
	return result
}
