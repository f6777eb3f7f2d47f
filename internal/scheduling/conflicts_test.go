package scheduling

import (
	"testing"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appt(resourceID int64, startH, startM, endH, endM int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ResourceID: resourceID,
		Start:      at(startH, startM),
		End:        at(endH, endM),
		Status:     status,
	}
}

func TestIsBusy_SpecificResource(t *testing.T) {
	existing := []*domain.Appointment{appt(1, 10, 0, 11, 0, domain.StatusConfirmed)}

	tests := []struct {
		name      string
		candidate domain.Interval
		resource  int64
		want      bool
	}{
		{name: "same start", candidate: domain.Interval{Start: at(10, 0), End: at(10, 30)}, resource: 1, want: true},
		{name: "starts at existing end", candidate: domain.Interval{Start: at(11, 0), End: at(11, 30)}, resource: 1, want: false},
		{name: "ends at existing start", candidate: domain.Interval{Start: at(9, 30), End: at(10, 0)}, resource: 1, want: false},
		{name: "covers existing", candidate: domain.Interval{Start: at(9, 0), End: at(12, 0)}, resource: 1, want: true},
		{name: "other resource", candidate: domain.Interval{Start: at(10, 0), End: at(10, 30)}, resource: 2, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBusy(tt.candidate, existing, Specific(tt.resource)))
		})
	}
}

func TestIsBusy_OverlapLaw(t *testing.T) {
	a := appt(1, 10, 0, 11, 0, domain.StatusPending)
	b := appt(1, 10, 30, 11, 30, domain.StatusPending)

	require.True(t, a.Interval().Overlaps(b.Interval()))
	assert.True(t, IsBusy(a.Interval(), []*domain.Appointment{b}, Specific(1)))
	assert.True(t, IsBusy(b.Interval(), []*domain.Appointment{a}, Specific(1)))
}

func TestIsBusy_IgnoresCancelledAndZeroDuration(t *testing.T) {
	existing := []*domain.Appointment{
		appt(1, 10, 0, 11, 0, domain.StatusCancelled),
		appt(1, 10, 15, 10, 15, domain.StatusConfirmed),
	}
	candidate := domain.Interval{Start: at(10, 0), End: at(10, 30)}

	assert.False(t, IsBusy(candidate, existing, Specific(1)))
	assert.False(t, IsBusy(candidate, existing, Pooled(1)))
}

func TestIsBusy_Pooled(t *testing.T) {
	candidate := domain.Interval{Start: at(10, 0), End: at(10, 30)}
	existing := []*domain.Appointment{
		appt(1, 10, 0, 11, 0, domain.StatusPaid),
		appt(2, 9, 30, 10, 30, domain.StatusPartial),
		appt(3, 10, 0, 10, 30, domain.StatusPending),
	}

	assert.True(t, IsBusy(candidate, existing, Pooled(3)), "N resources, N overlaps")
	assert.False(t, IsBusy(candidate, existing[:2], Pooled(3)), "N resources, N-1 overlaps")
	assert.True(t, IsBusy(candidate, nil, Pooled(0)), "no resources")
}

func TestFilterAvailable(t *testing.T) {
	slots := GenerateSlots(domain.Interval{Start: at(9, 0), End: at(12, 0)}, 30, 30)
	existing := []*domain.Appointment{appt(1, 10, 0, 11, 0, domain.StatusConfirmed)}

	got := FormatSlots(FilterAvailable(slots, 30, existing, Specific(1)))

	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, got)
}

func TestFirstFreeResource(t *testing.T) {
	resources := []*domain.Resource{{ID: 7}, {ID: 3}, {ID: 5}}
	candidate := domain.Interval{Start: at(10, 0), End: at(10, 30)}

	got := FirstFreeResource(candidate, nil, resources)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ID)

	existing := []*domain.Appointment{appt(3, 10, 0, 11, 0, domain.StatusConfirmed)}
	got = FirstFreeResource(candidate, existing, resources)
	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.ID)

	existing = append(existing,
		appt(5, 10, 0, 11, 0, domain.StatusConfirmed),
		appt(7, 9, 0, 10, 30, domain.StatusConfirmed),
	)
	assert.Nil(t, FirstFreeResource(candidate, existing, resources))
	assert.Nil(t, FirstFreeResource(candidate, nil, nil))
}
