package get_available_slots

import "errors"

var (
	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = errors.New("get_available_slots: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrResourceNotFound возвращается, когда выбранный ресурс не найден
	ErrResourceNotFound = errors.New("get_available_slots: resource not found")

	// ErrServiceRequired возвращается, когда услуга не выбрана
	ErrServiceRequired = errors.New("get_available_slots: service required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
