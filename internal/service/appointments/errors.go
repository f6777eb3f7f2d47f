package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resource not found")

	// ErrSlotNotAvailable возвращается, когда новое время пересекается с другой записью
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrCannotCancel возвращается, когда запись уже отменена или завершена
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrCannotReschedule возвращается, когда запись уже отменена или завершена
	ErrCannotReschedule = errors.New("appointment cannot be rescheduled")

	// ErrConcurrentUpdate возвращается, когда запись одновременно изменил другой запрос
	ErrConcurrentUpdate = errors.New("appointment was modified concurrently")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
