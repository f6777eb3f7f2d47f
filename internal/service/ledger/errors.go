package ledger

import "errors"

var (
	// ErrMovementNotFound возвращается, когда движение не найдено
	ErrMovementNotFound = errors.New("movement not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
