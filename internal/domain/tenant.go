package domain

import (
	"fmt"
	"time"
)

// Sector business vertical of a tenant
type Sector string

const (
	SectorSalon    Sector = "salon"
	SectorClinic   Sector = "clinic"
	SectorWorkshop Sector = "workshop"
	SectorGeneric  Sector = "generic"
)

// Capabilities optional booking features enabled for a sector
type Capabilities struct {
	VehicleInfo    bool `json:"vehicleInfo"`
	ClinicalNotes  bool `json:"clinicalNotes"`
	PartialPayment bool `json:"partialPayment"`
	Recurring      bool `json:"recurring"`
}

var sectorCapabilities = map[Sector]Capabilities{
	SectorSalon:    {PartialPayment: true, Recurring: true},
	SectorClinic:   {ClinicalNotes: true, PartialPayment: true, Recurring: true},
	SectorWorkshop: {VehicleInfo: true, PartialPayment: true},
	SectorGeneric:  {PartialPayment: true},
}

// CapabilitiesFor looks up the capability set of a sector; unknown sectors get the generic set
func CapabilitiesFor(sector Sector) Capabilities {
	if caps, ok := sectorCapabilities[sector]; ok {
		return caps
	}
	return sectorCapabilities[SectorGeneric]
}

// IsValid returns true for known sectors
func (s Sector) IsValid() bool {
	_, ok := sectorCapabilities[s]
	return ok
}

// Tenant represents a business account
type Tenant struct {
	ID           int64
	Name         string
	Sector       Sector
	Timezone     string // IANA, e.g. "Europe/Moscow"
	PhoneRegion  string // ISO 3166-1 alpha-2 for phone parsing, e.g. "RU"
	OwnerEmail   *string
	OwnerPhone   *string
	OpeningHours OpeningHours

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Capabilities returns the feature set of the tenant's sector
func (t *Tenant) Capabilities() Capabilities {
	return CapabilitiesFor(t.Sector)
}

// Location returns the tenant's wall-clock location; empty timezone means UTC
func (t *Tenant) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, t.Timezone)
	}
	return loc, nil
}

// LocalDate re-anchors the calendar date of d to midnight in loc
func LocalDate(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}
