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

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	actionIconHandler "github.com/m04kA/SMC-BlinkBooking/internal/api/handlers/action_icon"
	actionsManifestHandler "github.com/m04kA/SMC-BlinkBooking/internal/api/handlers/actions_manifest"
	bookActionHandler "github.com/m04kA/SMC-BlinkBooking/internal/api/handlers/book_action"
	createSlotHandler "github.com/m04kA/SMC-BlinkBooking/internal/api/handlers/create_slot"
	getBookingAccessHandler "github.com/m04kA/SMC-BlinkBooking/internal/api/handlers/get_booking_access"
	getCheckpointHandler "github.com/m04kA/SMC-BlinkBooking/internal/api/handlers/get_checkpoint"
	"github.com/m04kA/SMC-BlinkBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BlinkBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-BlinkBooking/internal/integrations/imagefetch"
	"github.com/m04kA/SMC-BlinkBooking/internal/integrations/ledger"
	"github.com/m04kA/SMC-BlinkBooking/internal/integrations/resend"
	accessService "github.com/m04kA/SMC-BlinkBooking/internal/service/access"
	descriptorService "github.com/m04kA/SMC-BlinkBooking/internal/service/descriptor"
	txbuilderService "github.com/m04kA/SMC-BlinkBooking/internal/service/txbuilder"
	createSlotUC "github.com/m04kA/SMC-BlinkBooking/internal/usecase/create_slot"
	reserveSlotUC "github.com/m04kA/SMC-BlinkBooking/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-BlinkBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BlinkBooking/pkg/logger"
	"github.com/m04kA/SMC-BlinkBooking/pkg/metrics"
	"github.com/m04kA/SMC-BlinkBooking/pkg/mq"
	"github.com/m04kA/SMC-BlinkBooking/pkg/obs"
	"github.com/m04kA/SMC-BlinkBooking/pkg/txmanager"
)

const serviceVersion = "1.0.0"

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to TOML config")
	pflag.Parse()

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

	log.Info("Starting SMC-BlinkBooking...")
	log.Info("Configuration loaded from %s", *configPath)

	location, err := cfg.Display.Location()
	if err != nil {
		log.Fatal("Failed to load display timezone %q: %v", cfg.Display.Timezone, err)
	}

	// Трейсинг
	shutdownTracer := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracer, err = obs.InitTracer(context.Background(), obs.TracerConfig{
			ServiceName: cfg.Metrics.ServiceName,
			Version:     serviceVersion,
			Environment: cfg.Tracing.Environment,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			log.Fatal("Failed to initialize tracer: %v", err)
		}
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Метрики (nil если выключены, все Observe* безопасны на nil)
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	// Интеграционные клиенты
	ledgerClient := ledger.NewClient(
		ledger.NewRPC(cfg.Solana.RPCURL),
		time.Duration(cfg.Solana.Timeout)*time.Second,
		metricsCollector,
		log,
	)
	log.Info("Ledger client initialized (network=%s, rpc=%s, timeout=%ds)",
		cfg.Solana.Network, cfg.Solana.RPCURL, cfg.Solana.Timeout)

	images := imagefetch.NewFetcher(
		time.Duration(cfg.Icons.Timeout)*time.Second,
		cfg.Icons.UserAgent,
		cfg.Icons.UploadsDir,
	)

	// Почта и брокер опциональны; пустой интерфейс отключает канал
	var mailer accessService.Mailer
	if cfg.Email.Enabled() {
		mailer = resend.NewClient(resend.Config{
			BaseURL:   cfg.Email.APIURL,
			APIKey:    cfg.Email.APIKey,
			From:      cfg.Email.From,
			TestEmail: cfg.Email.TestEmail,
			Timeout:   time.Duration(cfg.Email.Timeout) * time.Second,
		})
		log.Info("Email notifications enabled (from=%s)", cfg.Email.From)
	} else {
		log.Warn("Email notifications disabled: RESEND_API_KEY is not set")
	}

	var publisher accessService.Publisher
	var mqPublisher *mq.Publisher
	if cfg.Broker.URL != "" {
		mqPublisher, err = mq.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to broker: %v", err)
		}
		publisher = mqPublisher
		log.Info("Broker publisher initialized (exchange=%s)", cfg.Broker.Exchange)
	}

	// Сервисы
	accessSvc := accessService.NewService(
		bookingRepository,
		slotRepository,
		txMgr,
		mailer,
		publisher,
		metricsCollector,
		accessService.Config{Location: location},
		log,
	)
	descriptorSvc := descriptorService.NewService(
		slotRepository,
		descriptorService.Config{FallbackIcon: cfg.Icons.FallbackURL, Location: location},
		log,
	)
	txBuilder := txbuilderService.NewService(ledgerClient, log)

	// Use cases
	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		slotRepository,
		bookingRepository,
		accessService.Issuer{},
		txMgr,
		metricsCollector,
		log,
	)
	createSlotUseCase := createSlotUC.NewUseCase(slotRepository, log)

	// Handlers
	bookAction := bookActionHandler.NewHandler(
		descriptorSvc,
		reserveSlotUseCase,
		txBuilder,
		accessSvc,
		cfg.Site,
		cfg.Solana.Network,
		log,
	)
	actionsManifest := actionsManifestHandler.NewHandler(cfg.Solana.Network)
	actionIcon := actionIconHandler.NewHandler(slotRepository, images, cfg.Icons.FallbackURL, log)
	getCheckpoint := getCheckpointHandler.NewHandler(ledgerClient, log)
	getBookingAccess := getBookingAccessHandler.NewHandler(accessSvc, log)
	createSlot := createSlotHandler.NewHandler(createSlotUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware(metricsCollector))

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// Discovery манифест
	r.HandleFunc("/actions.json", actionsManifest.Handle).Methods(http.MethodGet)
	r.HandleFunc("/actions.json", actionsManifest.HandlePreflight).Methods(http.MethodOptions)

	api := r.PathPrefix("/api").Subrouter()

	// Action бронирования
	api.HandleFunc("/action/book/icon", actionIcon.Handle).Methods(http.MethodGet)
	api.HandleFunc("/action/book/icon", actionIcon.HandlePreflight).Methods(http.MethodOptions)
	api.HandleFunc("/action/book", bookAction.ServeDescribe).Methods(http.MethodGet)
	api.HandleFunc("/action/book", bookAction.ServeReserve).Methods(http.MethodPost)
	api.HandleFunc("/action/book", bookAction.ServePreflight).Methods(http.MethodOptions)

	// Свежий blockhash для клиентов
	api.HandleFunc("/solana/blockhash", getCheckpoint.Handle).Methods(http.MethodGet)

	// Приватная страница бронирования
	api.HandleFunc("/bookings/{bookingId}", getBookingAccess.Handle).Methods(http.MethodGet)

	// Создание слотов
	api.HandleFunc("/slot/create", createSlot.Handle).Methods(http.MethodPost)

	handler := gorillaHandlers.RecoveryHandler(gorillaHandlers.PrintRecoveryStack(true))(r)
	handler = middleware.AccessLog(os.Stdout, handler)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
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

	// Дожидаемся отправки уведомлений по уже принятым бронированиям
	accessSvc.Wait()

	if mqPublisher != nil {
		if err := mqPublisher.Close(); err != nil {
			log.Error("Failed to close broker connection: %v", err)
		}
	}

	close(stopMetricsCh)

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
