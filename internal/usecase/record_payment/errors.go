package record_payment

import "errors"

var (
	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = errors.New("record_payment: tenant not found")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("record_payment: appointment not found")

	// ErrPaymentNotAllowed возвращается для отмененной или полностью оплаченной записи
	ErrPaymentNotAllowed = errors.New("record_payment: appointment does not accept payments")

	// ErrInvalidAmount возвращается, когда сумма не положительная или больше остатка
	ErrInvalidAmount = errors.New("record_payment: invalid amount")

	// ErrCapabilityDisabled возвращается, когда частичная оплата недоступна для отрасли
	ErrCapabilityDisabled = errors.New("record_payment: partial payment disabled for tenant sector")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("record_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("record_payment: internal error")
)
