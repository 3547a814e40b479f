package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/infrastructure/cache"
	"github.com/ledger/backend/internal/infrastructure/config"
	"github.com/ledger/backend/internal/infrastructure/event"
	"github.com/ledger/backend/internal/infrastructure/logger"
	"github.com/ledger/backend/internal/infrastructure/persistence"
	"github.com/ledger/backend/internal/infrastructure/telemetry"
	"github.com/ledger/backend/internal/interfaces/http/handler"
	"github.com/ledger/backend/internal/interfaces/http/middleware"
	"github.com/ledger/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting ledger backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	db, err := persistence.NewDatabase(ctx, &cfg.Database,
		persistence.WithGormLogger(log.Named("gorm"), logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		return err
	}

	bus, idempotency, err := newEventBus(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = bus.Stop(context.Background())
		_ = idempotency.Close()
	}()

	repos := persistence.NewGormRepositories(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)
	opts := []ledger.Option{
		ledger.WithEventPublisher(bus),
		ledger.WithLogger(log),
		ledger.WithTracer(tp.Tracer(ledger.TracerName)),
		ledger.WithReceivableCodes(cfg.Ledger.ReceivableCodes...),
		ledger.WithSalesJournalCode(cfg.Ledger.SalesJournalCode),
		ledger.WithInvoicePrefix(cfg.Ledger.InvoicePrefix),
	}
	setup := ledger.NewSetupService(repos, opts...)
	entries := ledger.NewJournalEntryService(repos, txScope, opts...)
	invoices := ledger.NewInvoiceService(repos, txScope, opts...)

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	middleware.SetupValidator()
	engine, err := router.NewEngine(router.EngineConfig{
		Logger: log,
		HTTP:   cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Companies:        setup,
		DefaultCompanyID: cfg.Ledger.DefaultCompany(),
	}, router.Handlers{
		Health:         handler.NewHealthHandler(sqlDB, cfg.App.Name),
		Companies:      handler.NewCompanyHandler(setup),
		Accounts:       handler.NewAccountHandler(setup),
		Journals:       handler.NewJournalHandler(setup),
		Partners:       handler.NewPartnerHandler(setup),
		JournalEntries: handler.NewJournalEntryHandler(entries),
		Invoices:       handler.NewInvoiceHandler(invoices),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited gracefully")
	return nil
}

// newEventBus starts the in-memory bus with the posting audit handler
// subscribed behind the configured idempotency store
func newEventBus(ctx context.Context, cfg *config.Config, log *zap.Logger) (*event.InMemoryEventBus, shared.IdempotencyStore, error) {
	store, err := cache.NewIdempotencyStore(ctx, cfg.Event, cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}

	idemCfg := shared.DefaultIdempotencyConfig()
	if cfg.Event.IdempotencyTTL > 0 {
		idemCfg.TTL = cfg.Event.IdempotencyTTL
	}

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewIdempotentHandler(
		ledger.NewPostingAuditHandler(log),
		store,
		log.Named("idempotency"),
		event.WithIdempotencyConfig(idemCfg),
	))
	if err := bus.Start(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return bus, store, nil
}
