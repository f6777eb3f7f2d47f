package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID   int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	ResourceID *int64    // ID ресурса; nil - любой свободный
	Date       time.Time // Дата (учитывается только календарный день)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date       time.Time // Дата в часовом поясе бизнеса
	TenantID   int64
	ServiceID  int64
	ResourceID *int64
	Slots      []string // Время начала "HH:MM" по возрастанию
}
