// Package testutil содержит in-memory реализации репозиториев и коллабораторов для тестов use case'ов
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	movementRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/movement"
	tenantRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/tenant"
)

// Clock фиксированное время
type Clock struct {
	T time.Time
}

func (c Clock) Now() time.Time { return c.T }

// Tenants in-memory репозиторий тенантов
type Tenants struct {
	mu    sync.Mutex
	items map[int64]*domain.Tenant
	Err   error
}

func NewTenants(tenants ...*domain.Tenant) *Tenants {
	r := &Tenants{items: make(map[int64]*domain.Tenant)}
	for _, t := range tenants {
		r.items[t.ID] = t
	}
	return r
}

func (r *Tenants) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.items[id]
	if !ok {
		return nil, tenantRepo.ErrTenantNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *Tenants) UpdateOpeningHours(_ context.Context, id int64, hours domain.OpeningHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return tenantRepo.ErrTenantNotFound
	}
	t.OpeningHours = hours
	return nil
}

// Catalog in-memory справочник услуг и ресурсов
type Catalog struct {
	Services  []*domain.Service
	Resources []*domain.Resource
	Err       error
}

func (c *Catalog) GetServiceByID(_ context.Context, tenantID, id int64) (*domain.Service, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	for _, s := range c.Services {
		if s.ID == id && s.TenantID == tenantID {
			return s, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (c *Catalog) GetServices(_ context.Context, tenantID int64) ([]*domain.Service, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	result := make([]*domain.Service, 0)
	for _, s := range c.Services {
		if s.TenantID == tenantID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (c *Catalog) GetResourceByID(_ context.Context, tenantID, id int64) (*domain.Resource, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	for _, r := range c.Resources {
		if r.ID == id && r.TenantID == tenantID {
			return r, nil
		}
	}
	return nil, catalogRepo.ErrResourceNotFound
}

func (c *Catalog) GetResources(_ context.Context, tenantID int64) ([]*domain.Resource, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	result := make([]*domain.Resource, 0)
	for _, r := range c.Resources {
		if r.TenantID == tenantID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Appointments in-memory репозиторий записей
// Повторяет уникальный индекс (tenant_id, resource_id, start_time) для активных записей
type Appointments struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*domain.Appointment

	// FailCreate возвращает ошибку для записи, если функция вернула true
	FailCreate func(appt *domain.Appointment) error
	FilterErr  error
	Filters    []domain.AppointmentsFilter
}

func NewAppointments(existing ...*domain.Appointment) *Appointments {
	r := &Appointments{items: make(map[int64]*domain.Appointment)}
	for _, a := range existing {
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
		r.items[a.ID] = a
	}
	return r
}

func (r *Appointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		if err := r.FailCreate(appt); err != nil {
			return nil, err
		}
	}

	if !appt.IsCancelled() {
		for _, existing := range r.items {
			if existing.TenantID == appt.TenantID && existing.ResourceID == appt.ResourceID &&
				existing.Start.Equal(appt.Start) && !existing.IsCancelled() {
				return nil, appointmentRepo.ErrSlotTaken
			}
		}
	}

	r.nextID++
	stored := *appt
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.items[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *Appointments) GetByID(_ context.Context, tenantID, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.TenantID != tenantID {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *Appointments) GetByTenantWithFilter(_ context.Context, f domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Filters = append(r.Filters, f)
	if r.FilterErr != nil {
		return nil, r.FilterErr
	}

	result := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if a.TenantID != f.TenantID {
			continue
		}
		if f.From != nil && a.Start.Before(*f.From) {
			continue
		}
		if f.To != nil && a.Start.After(*f.To) {
			continue
		}
		if f.ResourceID != nil && a.ResourceID != *f.ResourceID {
			continue
		}
		if f.ClientName != nil && !strings.EqualFold(a.ClientName, *f.ClientName) {
			continue
		}
		if !f.IncludeCancelled && a.IsCancelled() {
			continue
		}
		copied := *a
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Start.Equal(result[j].Start) {
			return result[i].ID < result[j].ID
		}
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}

func (r *Appointments) Update(_ context.Context, appt *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[appt.ID]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	stored := *appt
	r.items[appt.ID] = &stored
	return nil
}

func (r *Appointments) UpdateStatus(_ context.Context, tenantID, id int64, status domain.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.TenantID != tenantID {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (r *Appointments) Cancel(_ context.Context, tenantID, id int64, reason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.TenantID != tenantID {
		return appointmentRepo.ErrAppointmentNotFound
	}
	now := time.Now()
	a.Status = domain.StatusCancelled
	a.CancellationReason = reason
	a.CancelledAt = &now
	return nil
}

func (r *Appointments) Delete(_ context.Context, tenantID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.TenantID != tenantID {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}

// All возвращает все записи по возрастанию ID
func (r *Appointments) All() []*domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Appointment, 0, len(r.items))
	for _, a := range r.items {
		copied := *a
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Movements in-memory репозиторий движений
type Movements struct {
	mu     sync.Mutex
	nextID int64
	Items  []*domain.Movement
	Err    error
}

func (r *Movements) Create(_ context.Context, m *domain.Movement) (*domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.nextID++
	stored := *m
	stored.ID = r.nextID
	r.Items = append(r.Items, &stored)
	result := stored
	return &result, nil
}

func (r *Movements) GetByTenantWithFilter(_ context.Context, f domain.MovementsFilter) ([]*domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Movement, 0)
	for _, m := range r.Items {
		if m.TenantID != f.TenantID {
			continue
		}
		if f.Type != nil && m.Type != *f.Type {
			continue
		}
		if f.AppointmentID != nil && (m.AppointmentID == nil || *m.AppointmentID != *f.AppointmentID) {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

func (r *Movements) Delete(_ context.Context, tenantID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.Items {
		if m.ID == id && m.TenantID == tenantID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return nil
		}
	}
	return movementRepo.ErrMovementNotFound
}

// TxManager выполняет функцию без реальной транзакции
// CommitErr имитирует ошибку фиксации (например, serialization failure)
type TxManager struct {
	Calls     int
	CommitErr error
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return m.CommitErr
}

// Publisher запоминает опубликованные события
type Publisher struct {
	mu     sync.Mutex
	Events []events.Event
	Err    error
}

func (p *Publisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, e)
	return p.Err
}

// Types типы опубликованных событий по порядку
func (p *Publisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Type
	}
	return types
}

// ErrStore ошибка хранилища для тестов
var ErrStore = errors.New("store unavailable")
