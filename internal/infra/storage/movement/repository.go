package movement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
)

// Repository репозиторий движений по счету
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория движений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет движение; внутри транзакции пишет в неё
func (r *Repository) Create(ctx context.Context, m *domain.Movement) (*domain.Movement, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("movements").
		Columns("tenant_id", "description", "amount", "type", "date", "appointment_id").
		Values(m.TenantID, m.Description, m.Amount, m.Type, m.Date, m.AppointmentID).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	m.CreatedAt = createdAt.Time

	return m, nil
}

// GetByTenantWithFilter получает движения тенанта, новые первыми
func (r *Repository) GetByTenantWithFilter(ctx context.Context, filter domain.MovementsFilter) ([]*domain.Movement, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"description",
		"amount",
		"type",
		"date",
		"appointment_id",
		"created_at",
	).
		From("movements").
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": *filter.To})
	}
	if filter.Type != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.AppointmentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_id": *filter.AppointmentID})
	}

	query, args, err := selectBuilder.OrderBy("date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	movements := make([]*domain.Movement, 0)
	for rows.Next() {
		var m domain.Movement
		var createdAt sql.NullTime
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Description,
			&m.Amount,
			&m.Type,
			&m.Date,
			&m.AppointmentID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetByTenantWithFilter - scan row: %v", ErrScanRow, err)
		}
		m.CreatedAt = createdAt.Time
		movements = append(movements, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - rows error: %v", ErrScanRow, err)
	}

	return movements, nil
}

// Delete удаляет движение; запись, к которой оно привязано, не меняется
func (r *Repository) Delete(ctx context.Context, tenantID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("movements").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMovementNotFound
	}

	return nil
}
