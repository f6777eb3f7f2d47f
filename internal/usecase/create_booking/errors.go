package create_booking

import "errors"

var (
	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = errors.New("create_booking: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrResourceNotFound возвращается, когда выбранный ресурс не найден
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrServiceRequired возвращается, когда услуга не выбрана
	ErrServiceRequired = errors.New("create_booking: service required")

	// ErrNoResourceAvailable возвращается, когда у бизнеса нет ни одного ресурса
	ErrNoResourceAvailable = errors.New("create_booking: no resource available")

	// ErrClientRequired возвращается, когда не указано имя клиента
	ErrClientRequired = errors.New("create_booking: client name required")

	// ErrInvalidPhone возвращается при некорректном номере телефона клиента
	ErrInvalidPhone = errors.New("create_booking: invalid client phone")

	// ErrInvalidDeposit возвращается, когда предоплата отрицательная или больше цены
	ErrInvalidDeposit = errors.New("create_booking: invalid deposit")

	// ErrCapabilityDisabled возвращается, когда поле недоступно для отрасли бизнеса
	ErrCapabilityDisabled = errors.New("create_booking: capability disabled for tenant sector")

	// ErrInvalidDate возвращается, когда время записи уже прошло
	ErrInvalidDate = errors.New("create_booking: booking time is in the past")

	// ErrOutsideOpeningHours возвращается, когда слот не помещается в часы работы
	ErrOutsideOpeningHours = errors.New("create_booking: slot is outside opening hours")

	// ErrSlotNotAvailable возвращается, когда слот занят (в том числе параллельной записью)
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
