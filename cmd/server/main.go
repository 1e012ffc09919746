package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	pricingapp "github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/application/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/cache"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/config"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/event"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/logger"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/persistence"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/telemetry"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/handler"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/middleware"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// auditStreamMaxLen caps the redis audit stream
const auditStreamMaxLen = 100_000

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logCfg := logger.ForEnvironment(cfg.App.Env, cfg.Log.Level)
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	if cfg.Log.Output != "" {
		logCfg.Output = cfg.Log.Output
	}
	baseLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers are no-ops when disabled
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := telemetry.Bridge(baseLog, logProvider, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting pricing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.InstrumentGorm(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	priceLists := persistence.NewGormPriceListRepository(db.DB, decimal.NewFromFloat(cfg.Pricing.DefaultTaxRate))
	assignments := persistence.NewGormAssignmentRepository(db.DB)
	tenants := persistence.NewGormTenantRepository(db.DB)

	checks := map[string]handler.Pinger{"database": db}

	// Audit sink
	var (
		sink        pricing.AuditSink
		redisClient *redis.Client
	)
	switch cfg.Pricing.AuditSink {
	case config.AuditSinkDatabase:
		sink = persistence.NewGormQuoteAuditRepository(db.DB)
	case config.AuditSinkRedis:
		redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		sink = cache.NewRedisAuditSink(redisClient, cfg.Pricing.AuditStream, auditStreamMaxLen)
		checks["redis"] = redisPinger{redisClient}
	default:
		sink = pricingapp.NewLogAuditSink(log)
	}
	log.Info("Quote audit sink configured", zap.String("sink", cfg.Pricing.AuditSink))

	// Event bus
	bus := event.NewInMemoryEventBus(log)
	auditHandler := pricingapp.NewQuoteAuditHandler(sink, log)
	bus.Subscribe(auditHandler, auditHandler.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	fallbackID, err := cfg.Pricing.FallbackList()
	if err != nil {
		log.Fatal("Invalid pricing configuration", zap.Error(err))
	}

	serviceCfg := pricingapp.QuoteServiceConfig{
		Policy: pricing.MarginPolicy{
			Tolerance:            decimal.NewFromFloat(cfg.Pricing.ManualOverrideTolerance),
			StrictMargin:         cfg.Pricing.StrictMargin,
			LegacyDefaultPercent: decimal.NewFromFloat(cfg.Pricing.LegacyDefaultMarginPercent),
		},
		DefaultOutput:  pricing.ParseTaxConvention(cfg.Pricing.DefaultOutputConvention),
		FallbackListID: fallbackID,
		Publisher:      bus,
		Tracer:         tracerProvider.Tracer("pricing"),
		Logger:         log,
	}
	if metrics, err := telemetry.NewPricingMetrics(meterProvider.Meter(telemetry.MeterName)); err != nil {
		log.Warn("Pricing metrics disabled", zap.Error(err))
	} else {
		serviceCfg.Metrics = metrics
	}
	quotes := pricingapp.NewPriceQuoteService(priceLists, assignments, serviceCfg)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.Env == "production"

	engine, err := router.New(router.Config{
		Logger:         log,
		ServiceName:    cfg.Telemetry.ServiceName,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		TracingEnabled: tracerProvider.IsEnabled(),
		Security:       security,
		Tenants:        tenants,
		Health:         handler.NewHealthHandler(cfg.App.Name, version, checks),
	}, handler.NewPricingHandler(quotes))
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	// Drain pending audit events before the sinks go away
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err), zap.Int64("dropped", bus.Dropped()))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down log provider", zap.Error(err))
	}
}

// redisPinger adapts a redis client to the readiness check
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
