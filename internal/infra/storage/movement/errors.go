package movement

import "errors"

var (
	// ErrMovementNotFound возвращается, когда движение не найдено
	ErrMovementNotFound = errors.New("movement.repository: movement not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("movement.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("movement.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("movement.repository: failed to scan row")
)
