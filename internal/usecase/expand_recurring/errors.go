package expand_recurring

import "errors"

var (
	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = errors.New("expand_recurring: tenant not found")

	// ErrAppointmentNotFound возвращается, когда базовая запись не найдена
	ErrAppointmentNotFound = errors.New("expand_recurring: appointment not found")

	// ErrAppointmentCancelled возвращается, когда базовая запись отменена
	ErrAppointmentCancelled = errors.New("expand_recurring: appointment is cancelled")

	// ErrCapabilityDisabled возвращается, когда повторяющиеся записи недоступны для отрасли
	ErrCapabilityDisabled = errors.New("expand_recurring: recurring appointments disabled for tenant sector")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("expand_recurring: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("expand_recurring: internal error")
)
