package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// Режимы согласованности записи
const (
	// ModeStrict проверка и вставка в одной SERIALIZABLE транзакции
	ModeStrict = "strict"
	// ModeWeak чтение и запись без транзакции (гонка между клиентами возможна)
	ModeWeak = "weak"
)

// Client контактные данные клиента
type Client struct {
	Name     string
	Phone    *string
	ClientID *int64
}

// Request модель запроса на создание записи
type Request struct {
	TenantID      int64            // ID бизнеса
	ServiceID     int64            // ID услуги
	ResourceID    *int64           // ID ресурса; nil - первый свободный
	Date          time.Time        // Дата записи (учитывается только календарный день)
	StartTime     types.TimeString // Время начала, например "10:00"
	Client        Client           // Клиент
	Deposit       decimal.Decimal  // Предоплата
	VehicleInfo   *string          // Только для автосервисов
	ClinicalNotes *string          // Только для клиник
	Notes         *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	TenantID        int64
	ResourceID      int64
	ServiceID       int64
	Start           time.Time // В часовом поясе бизнеса
	End             time.Time
	DurationMinutes int
	Status          string

	// Снимок услуги
	ServiceName string
	Price       decimal.Decimal
	Deposit     decimal.Decimal
	Balance     decimal.Decimal

	ClientName    string
	ClientPhone   *string
	ClientID      *int64
	VehicleInfo   *string
	ClinicalNotes *string
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
