package main

import (
	"context"
	"database/sql"
	"flag"
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

	bookingEventsHandler "github.com/m04kA/SMC-AccommodationService/internal/api/handlers/booking_events"
	createBookingHandler "github.com/m04kA/SMC-AccommodationService/internal/api/handlers/create_booking"
	createVoidHandler "github.com/m04kA/SMC-AccommodationService/internal/api/handlers/create_void"
	extendBookingHandler "github.com/m04kA/SMC-AccommodationService/internal/api/handlers/extend_booking"
	getBookingHandler "github.com/m04kA/SMC-AccommodationService/internal/api/handlers/get_booking"
	premisesHandler "github.com/m04kA/SMC-AccommodationService/internal/api/handlers/premises"
	searchAvailabilityHandler "github.com/m04kA/SMC-AccommodationService/internal/api/handlers/search_availability"
	voidsHandler "github.com/m04kA/SMC-AccommodationService/internal/api/handlers/voids"
	"github.com/m04kA/SMC-AccommodationService/internal/api/middleware"
	"github.com/m04kA/SMC-AccommodationService/internal/calendar"
	"github.com/m04kA/SMC-AccommodationService/internal/config"
	"github.com/m04kA/SMC-AccommodationService/internal/infra/events"
	"github.com/m04kA/SMC-AccommodationService/internal/infra/lock"
	bedspaceRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/bedspace"
	bookingRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/booking"
	holidayRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/holiday"
	premisesRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/premises"
	voidRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/voids"
	personServiceClient "github.com/m04kA/SMC-AccommodationService/internal/integrations/personservice"
	bookingsService "github.com/m04kA/SMC-AccommodationService/internal/service/bookings"
	premisesService "github.com/m04kA/SMC-AccommodationService/internal/service/premises"
	voidsService "github.com/m04kA/SMC-AccommodationService/internal/service/voids"
	"github.com/m04kA/SMC-AccommodationService/internal/turnaround"
	createBookingUC "github.com/m04kA/SMC-AccommodationService/internal/usecase/create_booking"
	createVoidUC "github.com/m04kA/SMC-AccommodationService/internal/usecase/create_void"
	extendBookingUC "github.com/m04kA/SMC-AccommodationService/internal/usecase/extend_booking"
	searchAvailabilityUC "github.com/m04kA/SMC-AccommodationService/internal/usecase/search_availability"
	"github.com/m04kA/SMC-AccommodationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AccommodationService/pkg/logger"
	"github.com/m04kA/SMC-AccommodationService/pkg/metrics"
	"github.com/m04kA/SMC-AccommodationService/pkg/txmanager"
)

// Публикатор событий с закрытием при остановке
type publisher interface {
	bookingsService.EventPublisher
	Close() error
}

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML configuration")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-AccommodationService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Метрики; nil коллектор безопасен для вызова и ничего не пишет
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

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	bedspaceRepository := bedspaceRepo.NewRepository(wrappedDB)
	voidRepository := voidRepo.NewRepository(wrappedDB)
	premisesRepository := premisesRepo.NewRepository(wrappedDB)
	holidayRepository := holidayRepo.NewRepository(wrappedDB)

	// Календарь рабочих дней: праздники из БД и из конфигурации
	configHolidays, err := calendar.ParseHolidays(cfg.Calendar.Holidays)
	if err != nil {
		log.Fatal("Invalid calendar holidays: %v", err)
	}
	calendarProvider := calendar.NewProvider(holidayRepository, configHolidays)

	reloadSchedule := cfg.Calendar.ReloadSchedule
	if reloadSchedule == "" {
		reloadSchedule = "@daily"
	}
	calendarScheduler, err := calendar.NewScheduler(reloadSchedule, calendarProvider, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to create calendar scheduler: %v", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if err := calendarScheduler.ReloadNow(startupCtx); err != nil {
		cancelStartup()
		log.Fatal("Failed to load working-day calendar: %v", err)
	}
	cancelStartup()

	if cfg.Calendar.ReloadSchedule != "" {
		calendarScheduler.Start()
		log.Info("Calendar reload scheduled: %s", cfg.Calendar.ReloadSchedule)
	}

	scheduler := turnaround.NewScheduler(calendarProvider)

	// Публикация доменных событий
	var eventPublisher publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		eventPublisher = events.NewKafkaPublisher(
			events.SplitBrokers(cfg.Kafka.Brokers),
			time.Duration(cfg.Kafka.WriteTimeout)*time.Second,
			log,
		)
		log.Info("Kafka publisher enabled (brokers=%s)", cfg.Kafka.Brokers)
	}
	defer func() {
		if err := eventPublisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Распределенная блокировка койко-мест: redis или no-op для одного инстанса
	var bedspaceLocker createBookingUC.Locker = lock.NoopLocker{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis: %v", err)
		}
		cancelPing()

		bedspaceLocker = lock.NewRedisLocker(
			rdb,
			cfg.Redis.LockPrefix,
			time.Duration(cfg.Redis.LockTTLMs)*time.Millisecond,
			time.Duration(cfg.Redis.LockWaitMs)*time.Millisecond,
		)
		log.Info("Redis bedspace locks enabled (addr=%s)", cfg.Redis.Addr)
	}

	// Инициализируем интеграционных клиентов
	personClient := personServiceClient.NewClient(
		cfg.PersonService.URL,
		time.Duration(cfg.PersonService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PersonService=%s timeout=%ds)",
		cfg.PersonService.URL, cfg.PersonService.Timeout)

	lookback := cfg.Booking.TurnaroundLookbackDays

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		bedspaceRepository,
		voidRepository,
		bedspaceLocker,
		eventPublisher,
		txMgr,
		scheduler,
		lookback,
		log,
	)
	voidSvc := voidsService.NewService(voidRepository, eventPublisher, txMgr, log)
	premisesSvc := premisesService.NewService(premisesRepository, cfg.Booking.DefaultTurnaroundWorkingDays, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		bedspaceRepository,
		voidRepository,
		bedspaceLocker,
		eventPublisher,
		metricsCollector,
		txMgr,
		scheduler,
		createBookingUC.Settings{
			DefaultTurnaroundWorkingDays: cfg.Booking.DefaultTurnaroundWorkingDays,
			LookbackDays:                 lookback,
		},
		log,
	)
	extendBookingUseCase := extendBookingUC.NewUseCase(
		bookingRepository,
		bedspaceRepository,
		voidRepository,
		bedspaceLocker,
		eventPublisher,
		metricsCollector,
		txMgr,
		scheduler,
		lookback,
		log,
	)
	createVoidUseCase := createVoidUC.NewUseCase(
		bookingRepository,
		bedspaceRepository,
		voidRepository,
		bedspaceLocker,
		eventPublisher,
		txMgr,
		scheduler,
		lookback,
		log,
	)
	searchAvailabilityUseCase := searchAvailabilityUC.NewUseCase(
		bookingRepository,
		bedspaceRepository,
		voidRepository,
		personClient,
		txMgr,
		scheduler,
		lookback,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	extendBooking := extendBookingHandler.NewHandler(extendBookingUseCase, log)
	bookingEvents := bookingEventsHandler.NewHandler(bookingSvc, log)
	createVoid := createVoidHandler.NewHandler(createVoidUseCase, log)
	voids := voidsHandler.NewHandler(voidSvc, log)
	searchAvailability := searchAvailabilityHandler.NewHandler(searchAvailabilityUseCase, log)
	premises := premisesHandler.NewHandler(premisesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/dates", extendBooking.Handle).Methods(http.MethodPatch)

	// --- Журнал событий бронирования ---
	api.HandleFunc("/bookings/{bookingId}/arrivals", bookingEvents.HandleArrival).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/departures", bookingEvents.HandleDeparture).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/cancellations", bookingEvents.HandleCancellation).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/non-arrivals", bookingEvents.HandleNonArrival).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/confirmations", bookingEvents.HandleConfirmation).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/turnarounds", bookingEvents.HandleTurnaround).Methods(http.MethodPost)

	// --- Периоды простоя ---
	api.HandleFunc("/voids", createVoid.Handle).Methods(http.MethodPost)
	api.HandleFunc("/voids/{voidId}", voids.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/voids/{voidId}/cancellations", voids.HandleCancel).Methods(http.MethodPost)

	// --- Поиск свободных койко-мест ---
	api.HandleFunc("/availability/search", searchAvailability.Handle).Methods(http.MethodPost)

	// --- Помещения ---
	api.HandleFunc("/premises/{premisesId}", premises.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/premises/{premisesId}", premises.HandleUpdate).Methods(http.MethodPut)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	calendarScheduler.Stop()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
