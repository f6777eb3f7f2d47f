package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// DaySchedule opening hours for a single weekday
type DaySchedule struct {
	IsOpen bool             `json:"isOpen"`
	Start  types.TimeString `json:"start"`
	End    types.TimeString `json:"end"`
}

// OpeningHours weekly opening hours keyed by weekday (0 = Sunday).
// A missing weekday means closed.
type OpeningHours map[time.Weekday]DaySchedule

// Validate checks that every open day has start < end
func (h OpeningHours) Validate() error {
	for day, schedule := range h {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: unknown weekday %d", ErrInvalidOpeningHours, day)
		}
		if !schedule.IsOpen {
			continue
		}
		if err := schedule.Start.Validate(); err != nil {
			return fmt.Errorf("%w: %s start: %v", ErrInvalidOpeningHours, day, err)
		}
		if err := schedule.End.Validate(); err != nil {
			return fmt.Errorf("%w: %s end: %v", ErrInvalidOpeningHours, day, err)
		}
		if !schedule.Start.IsBefore(schedule.End) {
			return fmt.Errorf("%w: %s start %s must be before end %s",
				ErrInvalidOpeningHours, day, schedule.Start, schedule.End)
		}
	}
	return nil
}

// OpenIntervalForDate returns the opening interval on the calendar date of date,
// built in date's location. ok is false when the business is closed that day.
func (h OpeningHours) OpenIntervalForDate(date time.Time) (Interval, bool) {
	schedule, exists := h[date.Weekday()]
	if !exists || !schedule.IsOpen {
		return Interval{}, false
	}

	start, err := schedule.Start.On(date)
	if err != nil {
		return Interval{}, false
	}
	end, err := schedule.End.On(date)
	if err != nil {
		return Interval{}, false
	}
	if !start.Before(end) {
		return Interval{}, false
	}

	return Interval{Start: start, End: end}, true
}

// Value implements driver.Valuer (JSONB column)
func (h OpeningHours) Value() (driver.Value, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner (JSONB column)
func (h *OpeningHours) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*h = OpeningHours{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidOpeningHours, value)
	}

	parsed := OpeningHours{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return errors.Join(ErrInvalidOpeningHours, err)
	}
	*h = parsed
	return nil
}

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsEmpty returns true for zero or negative length ranges
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Overlaps is the half-open overlap test: touching endpoints do not overlap
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Contains returns true if other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Duration returns the length of the interval
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// DayBounds returns [00:00, 23:59:59] of date's calendar day in date's location
func DayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	end := time.Date(y, m, d, 23, 59, 59, 0, date.Location())
	return start, end
}
