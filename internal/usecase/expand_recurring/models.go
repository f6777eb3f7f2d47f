package expand_recurring

// Request модель запроса на повтор записи по неделям
type Request struct {
	TenantID      int64
	AppointmentID int64 // Базовая запись
	Weeks         int   // Количество повторов, от 1
}

// Response итог разворачивания; даты в формате YYYY-MM-DD
type Response struct {
	BaseID     int64
	Created    []string
	Failed     []string
	CreatedIDs []int64
}
