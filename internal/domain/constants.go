package domain

// Default configuration values
const (
	DefaultSlotStepMinutes   = 30
	DefaultMaxRecurringWeeks = 52
)

// Business validation constants
const (
	MaxClientNameLength         = 200
	MaxNotesLength              = 500
	MaxVehicleInfoLength        = 200
	MaxClinicalNotesLength      = 2000
	MaxCancellationReasonLength = 500
	MaxServiceDurationMinutes   = 24 * 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Event types published on appointment changes
const (
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentUpdated   = "appointment.updated"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentDeleted   = "appointment.deleted"
)
