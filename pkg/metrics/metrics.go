package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
// Все доменные методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	BookingsCreated      *prometheus.CounterVec
	BookingConflicts     *prometheus.CounterVec
	RecurringOccurrences *prometheus.CounterVec
	PaymentsRecorded     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Total number of confirmed bookings",
			ConstLabels: constLabels,
		}, []string{"mode"}),

		BookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Total number of bookings rejected because the slot was taken",
			ConstLabels: constLabels,
		}, []string{"mode"}),

		RecurringOccurrences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "recurring_occurrences_total",
			Help:        "Recurring occurrences by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		PaymentsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payments_recorded_total",
			Help:        "Total number of recorded payments by resulting status",
			ConstLabels: constLabels,
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.BookingsCreated,
		m.BookingConflicts,
		m.RecurringOccurrences,
		m.PaymentsRecorded,
	)

	return m
}

// IncBookingCreated учитывает успешное бронирование
func (m *Metrics) IncBookingCreated(mode string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(mode).Inc()
}

// IncBookingConflict учитывает отказ из-за занятого слота
func (m *Metrics) IncBookingConflict(mode string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(mode).Inc()
}

// AddRecurringOccurrences учитывает результат разворачивания повторяющейся записи
func (m *Metrics) AddRecurringOccurrences(created, failed int) {
	if m == nil {
		return
	}
	m.RecurringOccurrences.WithLabelValues("created").Add(float64(created))
	m.RecurringOccurrences.WithLabelValues("failed").Add(float64(failed))
}

// IncPaymentRecorded учитывает записанный платеж
func (m *Metrics) IncPaymentRecorded(status string) {
	if m == nil {
		return
	}
	m.PaymentsRecorded.WithLabelValues(status).Inc()
}
