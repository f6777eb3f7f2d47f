package appointment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExecutor запоминает последний запрос и возвращает заданную ошибку
type recordingExecutor struct {
	query        string
	args         []interface{}
	err          error
	rowsAffected int64
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	e.query, e.args = query, args
	if e.err != nil {
		return nil, e.err
	}
	return driverResult(e.rowsAffected), nil
}

func (e *recordingExecutor) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	e.query, e.args = query, args
	return nil, e.err
}

func (e *recordingExecutor) QueryRowContext(_ context.Context, query string, args ...interface{}) *sql.Row {
	e.query, e.args = query, args
	return &sql.Row{}
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

type fakeTx struct {
	*recordingExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func TestGetByTenantWithFilter_DayRangeQuery(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("stop")}
	repo := NewRepository(exec)

	from := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 13, 23, 59, 59, 0, time.UTC)

	_, err := repo.GetByTenantWithFilter(context.Background(), domain.AppointmentsFilter{
		TenantID: 1,
		From:     &from,
		To:       &to,
	})
	require.ErrorIs(t, err, ErrExecQuery)

	assert.Contains(t, exec.query, "tenant_id = $1")
	assert.Contains(t, exec.query, "start_time >= $2")
	assert.Contains(t, exec.query, "start_time <= $3")
	assert.Contains(t, exec.query, "status <> $4")
	assert.Contains(t, exec.query, "ORDER BY start_time ASC, id ASC")
	assert.NotContains(t, exec.query, "FOR UPDATE")
	assert.Equal(t, []interface{}{int64(1), from, to, "cancelled"}, exec.args)
}

func TestGetByTenantWithFilter_ForUpdateOnlyInTransaction(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("stop")}
	repo := NewRepository(exec)
	filter := domain.AppointmentsFilter{TenantID: 1, ForUpdate: true}

	_, _ = repo.GetByTenantWithFilter(context.Background(), filter)
	assert.NotContains(t, exec.query, "FOR UPDATE")

	txExec := &recordingExecutor{err: errors.New("stop")}
	ctx := dbmetrics.WithTx(context.Background(), fakeTx{txExec})

	_, _ = repo.GetByTenantWithFilter(ctx, filter)
	assert.Contains(t, txExec.query, "FOR UPDATE")
}

func TestGetByTenantWithFilter_ClientHistory(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("stop")}
	repo := NewRepository(exec)
	name := "Ana"

	_, _ = repo.GetByTenantWithFilter(context.Background(), domain.AppointmentsFilter{
		TenantID:         1,
		ClientName:       &name,
		IncludeCancelled: true,
	})

	assert.Contains(t, exec.query, "LOWER(client_name) = LOWER($2)")
	assert.NotContains(t, exec.query, "status <>")
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, classify("op", &pq.Error{Code: "23505"}), ErrSlotTaken)
	assert.ErrorIs(t, classify("op", &pq.Error{Code: "40001"}), ErrSerialization)
	assert.ErrorIs(t, classify("op", errors.New("conn reset")), ErrExecQuery)
}

func TestCancel_NotFound(t *testing.T) {
	exec := &recordingExecutor{rowsAffected: 0}
	repo := NewRepository(exec)

	err := repo.Cancel(context.Background(), 1, 99, nil)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.Contains(t, exec.query, "UPDATE appointments SET status = $1")
}

func TestDelete_ScopedByTenant(t *testing.T) {
	exec := &recordingExecutor{rowsAffected: 1}
	repo := NewRepository(exec)

	require.NoError(t, repo.Delete(context.Background(), 3, 7))
	assert.Equal(t, "DELETE FROM appointments WHERE id = $1 AND tenant_id = $2", exec.query)
	assert.Equal(t, []interface{}{int64(7), int64(3)}, exec.args)
}
