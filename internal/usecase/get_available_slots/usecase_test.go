package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/testutil"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
)

const tenantID int64 = 1

// понедельник
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func newTenant() *domain.Tenant {
	return &domain.Tenant{
		ID:     tenantID,
		Name:   "Studio",
		Sector: domain.SectorSalon,
		OpeningHours: domain.OpeningHours{
			time.Monday:  {IsOpen: true, Start: "09:00", End: "12:00"},
			time.Tuesday: {IsOpen: false},
		},
	}
}

func newCatalog(resources int) *testutil.Catalog {
	c := &testutil.Catalog{
		Services: []*domain.Service{
			{ID: 10, TenantID: tenantID, Name: "Cut", DurationMinutes: 60, Price: decimal.NewFromInt(100), IsActive: true},
			{ID: 11, TenantID: tenantID, Name: "Trim", DurationMinutes: 30, Price: decimal.NewFromInt(50), IsActive: true},
		},
	}
	for i := 1; i <= resources; i++ {
		c.Resources = append(c.Resources, &domain.Resource{ID: int64(i), TenantID: tenantID, Name: "R", IsActive: true})
	}
	return c
}

func existing(id, resourceID int64, startH, endH int) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		TenantID:   tenantID,
		ResourceID: resourceID,
		Start:      monday.Add(time.Duration(startH) * time.Hour),
		End:        monday.Add(time.Duration(endH) * time.Hour),
		Status:     domain.StatusPending,
	}
}

func newUseCase(catalog *testutil.Catalog, appts *testutil.Appointments) *UseCase {
	uc := NewUseCase(testutil.NewTenants(newTenant()), catalog, appts, 30, logger.NewNop())
	return uc.WithTimeProvider(testutil.Clock{T: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)})
}

func TestExecute_OpenDayPooled(t *testing.T) {
	uc := newUseCase(newCatalog(1), testutil.NewAppointments())

	resp, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 10, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, resp.Slots)
	assert.Equal(t, monday, resp.Date)
}

func TestExecute_ClosedDay(t *testing.T) {
	uc := newUseCase(newCatalog(1), testutil.NewAppointments())

	for _, date := range []time.Time{monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 2)} {
		resp, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 10, Date: date})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots, date.Weekday().String())
	}
}

func TestExecute_SpecificResource(t *testing.T) {
	appts := testutil.NewAppointments(existing(1, 1, 10, 11))
	uc := newUseCase(newCatalog(2), appts)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID: tenantID, ServiceID: 11, ResourceID: ptr.Ptr(int64(1)), Date: monday,
	})
	require.NoError(t, err)
	assert.NotContains(t, resp.Slots, "10:00")
	assert.NotContains(t, resp.Slots, "10:30")
	assert.Contains(t, resp.Slots, "11:00")
	assert.Contains(t, resp.Slots, "09:30")

	// другой ресурс свободен
	resp, err = uc.Execute(context.Background(), &Request{
		TenantID: tenantID, ServiceID: 11, ResourceID: ptr.Ptr(int64(2)), Date: monday,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Slots, "10:00")
}

func TestExecute_PooledCapacity(t *testing.T) {
	tests := []struct {
		name      string
		busy      []*domain.Appointment
		wantTen   bool
		resources int
	}{
		{
			name:      "N-1 overlapping keeps the slot",
			busy:      []*domain.Appointment{existing(1, 1, 10, 11)},
			resources: 2,
			wantTen:   true,
		},
		{
			name:      "N overlapping hides the slot",
			busy:      []*domain.Appointment{existing(1, 1, 10, 11), existing(2, 2, 10, 11)},
			resources: 2,
			wantTen:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(newCatalog(tt.resources), testutil.NewAppointments(tt.busy...))

			resp, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 11, Date: monday})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTen, contains(resp.Slots, "10:00"))
		})
	}
}

func TestExecute_CancelledDoesNotBlock(t *testing.T) {
	cancelled := existing(1, 1, 10, 11)
	cancelled.Status = domain.StatusCancelled
	uc := newUseCase(newCatalog(1), testutil.NewAppointments(cancelled))

	resp, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 11, Date: monday})
	require.NoError(t, err)
	assert.Contains(t, resp.Slots, "10:00")
}

func TestExecute_NoResources(t *testing.T) {
	uc := newUseCase(newCatalog(0), testutil.NewAppointments())

	resp, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 10, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newUseCase(newCatalog(1), testutil.NewAppointments())

	resp, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 10, Date: monday.AddDate(0, 0, -7)})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DropsStartedSlotsToday(t *testing.T) {
	uc := NewUseCase(testutil.NewTenants(newTenant()), newCatalog(1), testutil.NewAppointments(), 30, logger.NewNop()).
		WithTimeProvider(testutil.Clock{T: monday.Add(10*time.Hour + 15*time.Minute)})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 10, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "11:00"}, resp.Slots)
}

func TestExecute_SingleRangeQuery(t *testing.T) {
	appts := testutil.NewAppointments()
	uc := newUseCase(newCatalog(1), appts)

	_, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 10, Date: monday})
	require.NoError(t, err)

	require.Len(t, appts.Filters, 1)
	f := appts.Filters[0]
	assert.Equal(t, monday, *f.From)
	assert.Equal(t, monday.Add(24*time.Hour-time.Second), *f.To)
	assert.False(t, f.IncludeCancelled)
}

func TestExecute_Idempotent(t *testing.T) {
	uc := newUseCase(newCatalog(2), testutil.NewAppointments(existing(1, 1, 9, 10)))
	req := &Request{TenantID: tenantID, ServiceID: 10, Date: monday}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Slots, second.Slots)
}

func TestExecute_TenantTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	tenant := newTenant()
	tenant.Timezone = "Europe/Moscow"
	// запись 10:00-11:00 по Москве хранится в UTC
	busy := &domain.Appointment{
		ID: 1, TenantID: tenantID, ResourceID: 1, Status: domain.StatusPending,
		Start: time.Date(2026, 10, 19, 10, 0, 0, 0, loc).UTC(),
		End:   time.Date(2026, 10, 19, 11, 0, 0, 0, loc).UTC(),
	}
	uc := NewUseCase(testutil.NewTenants(tenant), newCatalog(1), testutil.NewAppointments(busy), 30, logger.NewNop()).
		WithTimeProvider(testutil.Clock{T: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: tenantID, ServiceID: 11, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		catalog *testutil.Catalog
		wantErr error
	}{
		{
			name:    "service required",
			req:     &Request{TenantID: tenantID, Date: monday},
			catalog: newCatalog(1),
			wantErr: ErrServiceRequired,
		},
		{
			name:    "missing date",
			req:     &Request{TenantID: tenantID, ServiceID: 10},
			catalog: newCatalog(1),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown tenant",
			req:     &Request{TenantID: 99, ServiceID: 10, Date: monday},
			catalog: newCatalog(1),
			wantErr: ErrTenantNotFound,
		},
		{
			name:    "unknown service",
			req:     &Request{TenantID: tenantID, ServiceID: 77, Date: monday},
			catalog: newCatalog(1),
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "unknown resource",
			req:     &Request{TenantID: tenantID, ServiceID: 10, ResourceID: ptr.Ptr(int64(5)), Date: monday},
			catalog: newCatalog(1),
			wantErr: ErrResourceNotFound,
		},
		{
			name:    "store failure",
			req:     &Request{TenantID: tenantID, ServiceID: 10, Date: monday},
			catalog: &testutil.Catalog{Err: testutil.ErrStore},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(tt.catalog, testutil.NewAppointments())

			_, err := uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func contains(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
