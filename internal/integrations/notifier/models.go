package notifier

import "time"

// Config настройки SMTP
type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Owner контакт владельца бизнеса
type Owner struct {
	BusinessName string
	Email        *string
	Phone        *string
}
