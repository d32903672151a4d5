package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	cancelBookingHandler "github.com/m04kA/SMC-BikeRepairService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-BikeRepairService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-BikeRepairService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-BikeRepairService/internal/api/handlers/get_booking"
	getDashboardHandler "github.com/m04kA/SMC-BikeRepairService/internal/api/handlers/get_dashboard"
	listBookingsHandler "github.com/m04kA/SMC-BikeRepairService/internal/api/handlers/list_bookings"
	paymentWebhookHandler "github.com/m04kA/SMC-BikeRepairService/internal/api/handlers/payment_webhook"
	"github.com/m04kA/SMC-BikeRepairService/internal/api/middleware"
	"github.com/m04kA/SMC-BikeRepairService/internal/config"
	bookingRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/customer"
	paymentRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/payment"
	scheduleRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
	bookingsService "github.com/m04kA/SMC-BikeRepairService/internal/service/bookings"
	assignMechanicUC "github.com/m04kA/SMC-BikeRepairService/internal/usecase/assign_mechanic"
	createBookingUC "github.com/m04kA/SMC-BikeRepairService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-BikeRepairService/internal/usecase/get_availability"
	handlePaymentEventUC "github.com/m04kA/SMC-BikeRepairService/internal/usecase/handle_payment_event"
	"github.com/m04kA/SMC-BikeRepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BikeRepairService/pkg/logger"
	"github.com/m04kA/SMC-BikeRepairService/pkg/metrics"
	"github.com/m04kA/SMC-BikeRepairService/pkg/txmanager"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(*configPath)
		},
	}
}

func serve(configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-BikeRepairService...")
	log.Info("Configuration loaded from %s", configPath)

	location := cfg.Booking.Location()

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без recorder обёртка просто проксирует запросы
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)

	// Клиент платежей нужен и для webhook: без секрета он отвечает ErrWebhookNotConfigured
	paymentClient := payments.NewClient(payments.Config{
		SecretKey:          cfg.Payments.SecretKey,
		WebhookSecret:      cfg.Payments.WebhookSecret,
		WebhookTolerance:   time.Duration(cfg.Payments.WebhookToleranceSec) * time.Second,
		SuccessURL:         cfg.Payments.SuccessURL,
		CancelURL:          cfg.Payments.CancelURL,
		SessionTTL:         time.Duration(cfg.Payments.SessionTTLMinutes) * time.Minute,
		BreakerMaxRequests: cfg.Payments.BreakerMaxRequests,
		BreakerInterval:    time.Duration(cfg.Payments.BreakerIntervalSec) * time.Second,
		BreakerTimeout:     time.Duration(cfg.Payments.BreakerTimeoutSec) * time.Second,
		BreakerFailures:    cfg.Payments.BreakerMaxFailures,
	}, log)

	var checkoutClient createBookingUC.PaymentClient
	if cfg.Payments.Enabled {
		checkoutClient = paymentClient
		log.Info("Online payments enabled (currency=%s)", cfg.Booking.Currency)
	} else {
		log.Warn("Online payments disabled: bookings are confirmed immediately")
	}

	// Инициализируем use cases
	assignMechanicUseCase := assignMechanicUC.NewUseCase(scheduleRepository, bookingRepository, log)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		scheduleRepository,
		bookingRepository,
		cfg.Booking.MaxRangeDays,
		location,
		metricsCollector,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		customerRepository,
		assignMechanicUseCase,
		checkoutClient,
		txMgr,
		createBookingUC.Settings{
			MaxAdvanceDays:  cfg.Booking.MaxAdvanceDays,
			AssignAttempts:  cfg.Booking.AssignAttempts,
			Currency:        cfg.Booking.Currency,
			PaymentsEnabled: cfg.Payments.Enabled,
			Location:        location,
		},
		metricsCollector,
		log,
	)

	handlePaymentEventUseCase := handlePaymentEventUC.NewUseCase(
		paymentRepository,
		bookingRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, location, log)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(paymentClient, handlePaymentEventUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getDashboard := getDashboardHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// Календарь доступности
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирования (ограничено по IP)
	bookingRoute := http.Handler(http.HandlerFunc(createBooking.Handle))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.PerMinute,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleTTLMinutes)*time.Minute,
			cfg.RateLimit.TrustProxy,
			log,
		)
		bookingRoute = limiter.Middleware()(bookingRoute)
		log.Info("Rate limit on POST /bookings: %d/min, burst=%d", cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	}
	api.Handle("/bookings", bookingRoute).Methods(http.MethodPost)

	// Webhook платежного провайдера (проверка подписи внутри)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/dashboard", getDashboard.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		close(stopMetricsCh)
		return fmt.Errorf("server failed to start: %w", err)
	}

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

	log.Info("Server stopped gracefully")
	return nil
}
