package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service represents a bookable service offered by a tenant
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Resource represents a schedulable unit (staff member, room, bay)
type Resource struct {
	ID        int64
	TenantID  int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
