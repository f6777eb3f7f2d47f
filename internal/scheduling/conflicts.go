package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Mode режим проверки занятости
// ResourceID != nil - конкретный ресурс, иначе пул из TotalResources ресурсов
type Mode struct {
	ResourceID     *int64
	TotalResources int
}

// Specific режим проверки конкретного ресурса
func Specific(resourceID int64) Mode {
	return Mode{ResourceID: &resourceID}
}

// Pooled режим "любой свободный специалист"
func Pooled(totalResources int) Mode {
	return Mode{TotalResources: totalResources}
}

// IsPooled возвращает true для режима пула
func (m Mode) IsPooled() bool {
	return m.ResourceID == nil
}

// IsBusy проверяет, пересекается ли кандидат с существующими записями
// Отмененные записи и записи нулевой длительности не учитываются
// Для пула слот занят, только если пересечений не меньше, чем ресурсов
func IsBusy(candidate domain.Interval, existing []*domain.Appointment, mode Mode) bool {
	if candidate.IsEmpty() {
		return false
	}

	if !mode.IsPooled() {
		for _, appt := range existing {
			if appt.ResourceID == *mode.ResourceID && blocks(appt, candidate) {
				return true
			}
		}
		return false
	}

	return countOverlapping(candidate, existing) >= mode.TotalResources
}

// FilterAvailable оставляет только свободные слоты заданной длительности
func FilterAvailable(slots []time.Time, durationMinutes int, existing []*domain.Appointment, mode Mode) []time.Time {
	duration := time.Duration(durationMinutes) * time.Minute

	available := make([]time.Time, 0, len(slots))
	for _, start := range slots {
		candidate := domain.Interval{Start: start, End: start.Add(duration)}
		if !IsBusy(candidate, existing, mode) {
			available = append(available, start)
		}
	}
	return available
}

// FirstFreeResource выбирает свободный ресурс с наименьшим ID
// Возвращает nil, если все ресурсы заняты или список пуст
func FirstFreeResource(candidate domain.Interval, existing []*domain.Appointment, resources []*domain.Resource) *domain.Resource {
	ordered := make([]*domain.Resource, len(resources))
	copy(ordered, resources)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, resource := range ordered {
		if !IsBusy(candidate, existing, Specific(resource.ID)) {
			return resource
		}
	}
	return nil
}

func countOverlapping(candidate domain.Interval, existing []*domain.Appointment) int {
	count := 0
	for _, appt := range existing {
		if blocks(appt, candidate) {
			count++
		}
	}
	return count
}

// blocks интервалы полуоткрытые: запись, заканчивающаяся ровно в начале кандидата, не мешает
func blocks(appt *domain.Appointment, candidate domain.Interval) bool {
	if appt.IsCancelled() {
		return false
	}
	interval := appt.Interval()
	if interval.IsEmpty() {
		return false
	}
	return interval.Overlaps(candidate)
}
