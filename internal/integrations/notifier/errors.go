package notifier

import "errors"

var (
	// ErrDisabled возвращается, когда уведомления выключены в конфигурации
	ErrDisabled = errors.New("notifier: disabled")

	// ErrNoRecipient возвращается, когда у владельца не указан e-mail
	ErrNoRecipient = errors.New("notifier: owner has no e-mail")

	// ErrSend возвращается при ошибке SMTP
	ErrSend = errors.New("notifier: send failed")
)
