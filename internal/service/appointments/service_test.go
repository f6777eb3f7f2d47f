package appointments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AgendaService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AgendaService/internal/testutil"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
)

const tenantID int64 = 1

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func appointmentAt(id, resourceID int64, startH, endH int, client string) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		TenantID:        tenantID,
		ResourceID:      resourceID,
		Start:           monday.Add(time.Duration(startH) * time.Hour),
		End:             monday.Add(time.Duration(endH) * time.Hour),
		DurationMinutes: (endH - startH) * 60,
		Status:          domain.StatusPending,
		ClientName:      client,
	}
}

type fixture struct {
	appts     *testutil.Appointments
	tx        *testutil.TxManager
	publisher *testutil.Publisher
	svc       *Service
}

func newFixture(tz string, existing ...*domain.Appointment) *fixture {
	f := &fixture{
		appts:     testutil.NewAppointments(existing...),
		tx:        &testutil.TxManager{},
		publisher: &testutil.Publisher{},
	}
	tenants := testutil.NewTenants(&domain.Tenant{ID: tenantID, Sector: domain.SectorSalon, Timezone: tz})
	catalog := &testutil.Catalog{Resources: []*domain.Resource{
		{ID: 1, TenantID: tenantID}, {ID: 2, TenantID: tenantID},
	}}
	f.svc = NewService(f.appts, tenants, catalog, f.tx, f.publisher, logger.NewNop()).
		WithTimeProvider(testutil.Clock{T: monday})
	return f
}

func TestGetByID_ConvertsToTenantTime(t *testing.T) {
	f := newFixture("Europe/Moscow", appointmentAt(1, 1, 7, 8, "Anna"))

	resp, err := f.svc.GetByID(context.Background(), tenantID, 1)
	require.NoError(t, err)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "11:00", resp.EndTime)
	assert.Equal(t, "2026-10-19", resp.Date)

	_, err = f.svc.GetByID(context.Background(), tenantID, 99)
	require.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = f.svc.GetByID(context.Background(), 42, 1)
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestListRange(t *testing.T) {
	cancelled := appointmentAt(3, 1, 12, 13, "Olga")
	cancelled.Status = domain.StatusCancelled
	nextWeek := appointmentAt(4, 1, 10, 11, "Ivan")
	nextWeek.Start = nextWeek.Start.AddDate(0, 0, 7)
	nextWeek.End = nextWeek.End.AddDate(0, 0, 7)

	f := newFixture("", appointmentAt(2, 2, 11, 12, "Anna"), appointmentAt(1, 1, 9, 10, "Ivan"), cancelled, nextWeek)

	resp, err := f.svc.ListRange(context.Background(), &models.ListRangeRequest{
		TenantID: tenantID, From: monday, To: monday,
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
	assert.Equal(t, int64(2), resp.Appointments[1].ID)

	resp, err = f.svc.ListRange(context.Background(), &models.ListRangeRequest{
		TenantID: tenantID, From: monday, To: monday.AddDate(0, 0, 7), IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 4)

	resp, err = f.svc.ListRange(context.Background(), &models.ListRangeRequest{
		TenantID: tenantID, From: monday, To: monday, ResourceID: ptr.Ptr(int64(2)),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(2), resp.Appointments[0].ID)

	_, err = f.svc.ListRange(context.Background(), &models.ListRangeRequest{
		TenantID: tenantID, From: monday, To: monday.AddDate(0, 0, -1),
	})
	require.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestListByClient(t *testing.T) {
	cancelled := appointmentAt(3, 1, 12, 13, "anna")
	cancelled.Status = domain.StatusCancelled
	f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"), appointmentAt(2, 1, 10, 11, "Ivan"), cancelled)

	resp, err := f.svc.ListByClient(context.Background(), tenantID, " ANNA ")
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)

	_, err = f.svc.ListByClient(context.Background(), tenantID, "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReschedule(t *testing.T) {
	t.Run("resize over own interval", func(t *testing.T) {
		f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"))

		resp, err := f.svc.Reschedule(context.Background(), tenantID, 1, &models.RescheduleRequest{
			Start: monday.Add(9 * time.Hour), End: monday.Add(10*time.Hour + 30*time.Minute),
		})
		require.NoError(t, err)
		assert.Equal(t, 90, resp.DurationMinutes)
		assert.Equal(t, []string{domain.EventAppointmentUpdated}, f.publisher.Types())
		assert.Equal(t, 1, f.tx.Calls)
	})

	t.Run("conflict on target resource", func(t *testing.T) {
		f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"), appointmentAt(2, 2, 10, 11, "Ivan"))

		_, err := f.svc.Reschedule(context.Background(), tenantID, 1, &models.RescheduleRequest{
			Start: monday.Add(10 * time.Hour), End: monday.Add(11 * time.Hour), ResourceID: ptr.Ptr(int64(2)),
		})
		require.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Empty(t, f.publisher.Events)
	})

	t.Run("back to back on target resource", func(t *testing.T) {
		f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"), appointmentAt(2, 2, 10, 11, "Ivan"))

		resp, err := f.svc.Reschedule(context.Background(), tenantID, 1, &models.RescheduleRequest{
			Start: monday.Add(11 * time.Hour), End: monday.Add(12 * time.Hour), ResourceID: ptr.Ptr(int64(2)),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.ResourceID)
	})

	t.Run("cancelled appointment", func(t *testing.T) {
		cancelled := appointmentAt(1, 1, 9, 10, "Anna")
		cancelled.Status = domain.StatusCancelled
		f := newFixture("", cancelled)

		_, err := f.svc.Reschedule(context.Background(), tenantID, 1, &models.RescheduleRequest{
			Start: monday.Add(11 * time.Hour), End: monday.Add(12 * time.Hour),
		})
		require.ErrorIs(t, err, ErrCannotReschedule)
	})

	t.Run("invalid range", func(t *testing.T) {
		f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"))

		_, err := f.svc.Reschedule(context.Background(), tenantID, 1, &models.RescheduleRequest{
			Start: monday.Add(11 * time.Hour), End: monday.Add(11 * time.Hour),
		})
		require.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"))

		_, err := f.svc.Reschedule(context.Background(), tenantID, 1, &models.RescheduleRequest{
			Start: monday.Add(11 * time.Hour), End: monday.Add(12 * time.Hour), ResourceID: ptr.Ptr(int64(7)),
		})
		require.ErrorIs(t, err, ErrResourceNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.AppointmentStatus
		to      string
		wantErr error
	}{
		{name: "pending to confirmed", from: domain.StatusPending, to: "confirmed"},
		{name: "confirmed to completed", from: domain.StatusConfirmed, to: "completed"},
		{name: "paid directly", from: domain.StatusPending, to: "paid", wantErr: ErrInvalidTransition},
		{name: "cancel through status", from: domain.StatusPending, to: "cancelled", wantErr: ErrInvalidTransition},
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPending, to: "archived", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := appointmentAt(1, 1, 9, 10, "Anna")
			appt.Status = tt.from
			f := newFixture("", appt)

			err := f.svc.UpdateStatus(context.Background(), tenantID, 1, &models.UpdateStatusRequest{Status: tt.to})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.publisher.Events)
				return
			}
			require.NoError(t, err)

			stored, err := f.appts.GetByID(context.Background(), tenantID, 1)
			require.NoError(t, err)
			assert.Equal(t, domain.AppointmentStatus(tt.to), stored.Status)
			assert.Equal(t, []string{domain.EventAppointmentUpdated}, f.publisher.Types())
		})
	}
}

func TestCancel(t *testing.T) {
	f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"))

	err := f.svc.Cancel(context.Background(), tenantID, 1, &models.CancelRequest{Reason: ptr.Ptr("sick")})
	require.NoError(t, err)

	stored, err := f.appts.GetByID(context.Background(), tenantID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, "sick", *stored.CancellationReason)
	assert.Equal(t, []string{domain.EventAppointmentCancelled}, f.publisher.Types())

	// повторная отмена запрещена
	err = f.svc.Cancel(context.Background(), tenantID, 1, &models.CancelRequest{})
	require.ErrorIs(t, err, ErrCannotCancel)
}

func TestStatusChangesRunInLockingTransaction(t *testing.T) {
	f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"), appointmentAt(2, 1, 11, 12, "Ivan"))

	require.NoError(t, f.svc.UpdateStatus(context.Background(), tenantID, 1, &models.UpdateStatusRequest{Status: "completed"}))
	assert.Equal(t, 1, f.tx.Calls)

	require.NoError(t, f.svc.Cancel(context.Background(), tenantID, 2, &models.CancelRequest{}))
	assert.Equal(t, 2, f.tx.Calls)

	// завершенную запись уже нельзя отменить
	err := f.svc.Cancel(context.Background(), tenantID, 1, &models.CancelRequest{})
	require.ErrorIs(t, err, ErrCannotCancel)

	stored, err := f.appts.GetByID(context.Background(), tenantID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestStatusChanges_SerializationFailureIsConflict(t *testing.T) {
	serialization := fmt.Errorf("%w: commit", appointmentRepo.ErrSerialization)

	t.Run("cancel", func(t *testing.T) {
		f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"))
		f.tx.CommitErr = serialization

		err := f.svc.Cancel(context.Background(), tenantID, 1, &models.CancelRequest{})
		require.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.Empty(t, f.publisher.Events)
	})

	t.Run("update status", func(t *testing.T) {
		f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"))
		f.tx.CommitErr = serialization

		err := f.svc.UpdateStatus(context.Background(), tenantID, 1, &models.UpdateStatusRequest{Status: "confirmed"})
		require.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.Empty(t, f.publisher.Events)
	})
}

func TestDelete(t *testing.T) {
	f := newFixture("", appointmentAt(1, 1, 9, 10, "Anna"))

	require.NoError(t, f.svc.Delete(context.Background(), tenantID, 1))
	assert.Empty(t, f.appts.All())
	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, domain.EventAppointmentDeleted, f.publisher.Events[0].Type)
	assert.Nil(t, f.publisher.Events[0].Appointment)

	require.ErrorIs(t, f.svc.Delete(context.Background(), tenantID, 1), ErrAppointmentNotFound)
}
