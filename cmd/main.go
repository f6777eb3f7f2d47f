package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	appointmentsStreamHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/appointments_stream"
	cancelAppointmentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/cancel_appointment"
	clientHistoryHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/client_history"
	createBookingHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/create_booking"
	deleteAppointmentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/delete_appointment"
	deleteMovementHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/delete_movement"
	expandRecurringHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/expand_recurring"
	getAppointmentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_available_slots"
	getTenantConfigHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_tenant_config"
	listAppointmentsHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/list_appointments"
	listMovementsHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/list_movements"
	listResourcesHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/list_resources"
	listServicesHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/list_services"
	recordPaymentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/record_payment"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/update_appointment_status"
	updateOpeningHoursHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/update_opening_hours"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/config"
	"github.com/m04kA/SMC-AgendaService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	movementRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/movement"
	tenantRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/SMC-AgendaService/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-AgendaService/internal/service/catalog"
	ledgerService "github.com/m04kA/SMC-AgendaService/internal/service/ledger"
	tenantsService "github.com/m04kA/SMC-AgendaService/internal/service/tenants"
	createBookingUC "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
	expandRecurringUC "github.com/m04kA/SMC-AgendaService/internal/usecase/expand_recurring"
	getAvailableSlotsUC "github.com/m04kA/SMC-AgendaService/internal/usecase/get_available_slots"
	recordPaymentUC "github.com/m04kA/SMC-AgendaService/internal/usecase/record_payment"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/metrics"
	"github.com/m04kA/SMC-AgendaService/pkg/tracing"
	"github.com/m04kA/SMC-AgendaService/pkg/txmanager"
)

const (
	rateLimitWindow = time.Minute

	// appointmentsStreamRoute имя SSE-маршрута, на него не действует таймаут запроса
	appointmentsStreamRoute = "appointments_stream"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AgendaService...")
	log.Info("Configuration loaded from %s (consistency_mode=%s)", configPath, cfg.Booking.ConsistencyMode)

	// Трассировка
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Metrics.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Инициализируем метрики (если включены)
	// nil *metrics.Metrics безопасен: доменные счетчики и dbmetrics просто ничего не пишут
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	tenantRepository := tenantRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	movementRepository := movementRepo.NewRepository(wrappedDB)

	// Redis: Pub/Sub для календаря и общий rate limit
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancel()
		log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)
	}

	// События: живой канал для календаря + надежный поток в Kafka
	var (
		liveSubscriber events.Subscriber
		publishers     []events.Publisher
	)

	if rdb != nil {
		redisBroker := events.NewRedisBroker(rdb, log)
		liveSubscriber = redisBroker
		publishers = append(publishers, redisBroker)
		log.Info("Live updates via redis pub/sub")
	} else {
		broker := events.NewBroker(log)
		liveSubscriber = broker
		publishers = append(publishers, broker)
		log.Info("Live updates via in-process broker")
	}

	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Failed to close kafka writer: %v", err)
			}
		}()
		publishers = append(publishers, kafkaPublisher)
		log.Info("Kafka event stream enabled (topic=%s)", cfg.Kafka.Topic)
	}

	publisher := events.NewFanout(publishers...)

	// Уведомления владельцу
	ownerNotifier := notifier.NewClient(notifier.Config{
		Enabled:  cfg.Notifier.Enabled,
		Host:     cfg.Notifier.Host,
		Port:     cfg.Notifier.Port,
		Username: cfg.Notifier.Username,
		Password: cfg.Notifier.Password,
		From:     cfg.Notifier.From,
		Timeout:  time.Duration(cfg.Notifier.Timeout) * time.Second,
	}, log)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		tenantRepository,
		catalogRepository,
		txMgr,
		publisher,
		log,
	)
	tenantSvc := tenantsService.NewService(tenantRepository, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)
	ledgerSvc := ledgerService.NewService(movementRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		tenantRepository,
		catalogRepository,
		appointmentRepository,
		movementRepository,
		txMgr,
		publisher,
		ownerNotifier,
		metricsCollector,
		cfg.Booking.ConsistencyMode,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		tenantRepository,
		catalogRepository,
		appointmentRepository,
		cfg.Booking.SlotStepMinutes,
		log,
	)

	expandRecurringUseCase := expandRecurringUC.NewUseCase(
		tenantRepository,
		appointmentRepository,
		publisher,
		metricsCollector,
		cfg.Booking.MaxRecurringWeeks,
		log,
	)

	recordPaymentUseCase := recordPaymentUC.NewUseCase(
		tenantRepository,
		appointmentRepository,
		movementRepository,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getTenantConfig := getTenantConfigHandler.NewHandler(tenantSvc, log)
	updateOpeningHours := updateOpeningHoursHandler.NewHandler(tenantSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	listResources := listResourcesHandler.NewHandler(catalogSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	clientHistory := clientHistoryHandler.NewHandler(appointmentSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	recordPayment := recordPaymentHandler.NewHandler(recordPaymentUseCase, log)
	expandRecurring := expandRecurringHandler.NewHandler(expandRecurringUseCase, log)
	appointmentsStream := appointmentsStreamHandler.NewHandler(liveSubscriber, log)
	listMovements := listMovementsHandler.NewHandler(ledgerSvc, log)
	deleteMovement := deleteMovementHandler.NewHandler(ledgerSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(cfg.Booking.StoreTimeout(), appointmentsStreamRoute))

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с rate limit)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		clients, err := middleware.NewClientResolver(cfg.RateLimit.TrustedProxies)
		if err != nil {
			log.Fatal("Failed to parse rate_limit.trusted_proxies: %v", err)
		}

		if rdb != nil {
			public.Use(middleware.NewRedisRateLimiter(rdb, cfg.RateLimit.RequestsPerMinute, rateLimitWindow, "agenda:rl", clients, log).Middleware())
			log.Info("Redis rate limiter enabled (%d req/min)", cfg.RateLimit.RequestsPerMinute)
		} else {
			public.Use(middleware.NewLocalLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, clients, log).Middleware())
			log.Info("Local rate limiter enabled (%d req/min, burst=%d)", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		}
	}

	// Доступные слоты и запись клиентом
	public.HandleFunc("/tenants/{tenantId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/tenants/{tenantId}/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Справочники и настройки для виджета записи
	public.HandleFunc("/tenants/{tenantId}/services", listServices.Handle).Methods(http.MethodGet)
	public.HandleFunc("/tenants/{tenantId}/resources", listResources.Handle).Methods(http.MethodGet)
	public.HandleFunc("/tenants/{tenantId}/config", getTenantConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Календарь ---
	// stream регистрируется раньше {appointmentId}, иначе mux примет "stream" за ID
	protected.HandleFunc("/tenants/{tenantId}/appointments/stream", appointmentsStream.Handle).
		Methods(http.MethodGet).
		Name(appointmentsStreamRoute)
	protected.HandleFunc("/tenants/{tenantId}/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId:[0-9]+}", deleteAppointment.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId:[0-9]+}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId:[0-9]+}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId:[0-9]+}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId:[0-9]+}/payments", recordPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId:[0-9]+}/recurrences", expandRecurring.Handle).Methods(http.MethodPost)

	// История клиента
	protected.HandleFunc("/tenants/{tenantId}/clients/appointments", clientHistory.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом ---
	protected.HandleFunc("/tenants/{tenantId}/config/opening-hours", updateOpeningHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/tenants/{tenantId}/movements", listMovements.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/movements/{movementId:[0-9]+}", deleteMovement.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	// WriteTimeout не ставится: SSE-соединение живет, пока клиент подписан
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		IdleTimeout: time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
