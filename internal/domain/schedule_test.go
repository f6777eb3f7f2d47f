package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayHours() OpeningHours {
	return OpeningHours{
		time.Monday: {IsOpen: true, Start: "09:00", End: "12:00"},
		time.Sunday: {IsOpen: false},
	}
}

func TestOpeningHours_OpenIntervalForDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, loc)

	interval, ok := mondayHours().OpenIntervalForDate(monday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 13, 9, 0, 0, 0, loc), interval.Start)
	assert.Equal(t, time.Date(2025, 10, 13, 12, 0, 0, 0, loc), interval.End)
}

func TestOpeningHours_ClosedDays(t *testing.T) {
	hours := mondayHours()

	tests := []struct {
		name string
		date time.Time
	}{
		{name: "explicitly closed", date: time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)},
		{name: "missing weekday", date: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := hours.OpenIntervalForDate(tt.date)
			assert.False(t, ok)
		})
	}
}

func TestOpeningHours_Validate(t *testing.T) {
	assert.NoError(t, mondayHours().Validate())

	invalid := OpeningHours{time.Friday: {IsOpen: true, Start: "18:00", End: "09:00"}}
	assert.ErrorIs(t, invalid.Validate(), ErrInvalidOpeningHours)

	malformed := OpeningHours{time.Friday: {IsOpen: true, Start: "9am", End: "18:00"}}
	assert.ErrorIs(t, malformed.Validate(), ErrInvalidOpeningHours)

	closedGarbage := OpeningHours{time.Friday: {IsOpen: false, Start: "x"}}
	assert.NoError(t, closedGarbage.Validate())
}

func TestOpeningHours_JSONRoundTripThroughDriver(t *testing.T) {
	value, err := mondayHours().Value()
	require.NoError(t, err)

	var scanned OpeningHours
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, mondayHours(), scanned)
}

func TestInterval_Overlaps(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 10, 13, h, m, 0, 0, time.UTC) }
	existing := Interval{Start: at(10, 0), End: at(11, 0)}

	assert.True(t, existing.Overlaps(Interval{Start: at(10, 0), End: at(10, 30)}))
	assert.True(t, existing.Overlaps(Interval{Start: at(9, 30), End: at(10, 30)}))
	assert.True(t, existing.Overlaps(Interval{Start: at(9, 0), End: at(12, 0)}))
	assert.False(t, existing.Overlaps(Interval{Start: at(11, 0), End: at(11, 30)}), "back-to-back after")
	assert.False(t, existing.Overlaps(Interval{Start: at(9, 0), End: at(10, 0)}), "back-to-back before")
}

func TestDayBounds(t *testing.T) {
	date := time.Date(2025, 10, 13, 15, 4, 5, 0, time.UTC)
	start, end := DayBounds(date)

	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 10, 13, 23, 59, 59, 0, time.UTC), end)
}
