package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appbilling "github.com/ridgeline/backend/internal/application/billing"
	appcrm "github.com/ridgeline/backend/internal/application/crm"
	appidentity "github.com/ridgeline/backend/internal/application/identity"
	appscheduling "github.com/ridgeline/backend/internal/application/scheduling"
	"github.com/ridgeline/backend/internal/infrastructure/auth"
	"github.com/ridgeline/backend/internal/infrastructure/config"
	"github.com/ridgeline/backend/internal/infrastructure/logger"
	"github.com/ridgeline/backend/internal/infrastructure/persistence"
	"github.com/ridgeline/backend/internal/infrastructure/printing"
	"github.com/ridgeline/backend/internal/infrastructure/storage"
	"github.com/ridgeline/backend/internal/infrastructure/telemetry"
	"github.com/ridgeline/backend/internal/infrastructure/weather"
	ridgehttp "github.com/ridgeline/backend/internal/interfaces/http"
	"github.com/ridgeline/backend/internal/interfaces/http/handler"
)

// Version is set at build time via -ldflags
var Version = "dev"

//	@title			Ridgeline CRM API
//	@version		1.0
//	@description	Back office for roofing contractors: customers, leads, job scheduling with weather-driven rescheduling, measurements and invoicing.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Ridgeline CRM",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		// Logout still works process-locally; revocation won't survive restarts.
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		defer func() { _ = redisBlacklist.Close() }()
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	pendingShiftRepo := persistence.NewGormPendingShiftRepository(db.DB)
	measurementRepo := persistence.NewGormRoofMeasurementRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Weather adapters
	geocoder := weather.NewZippopotamGeocoder(cfg.Weather)
	forecasts := weather.NewOpenMeteoForecastSource(cfg.Weather, log)

	// Application services
	authService := appidentity.NewAuthService(tenantRepo, userRepo, jwtService, blacklist, log)
	customerService := appcrm.NewCustomerService(customerRepo)
	leadService := appcrm.NewLeadService(leadRepo, customerRepo, appointmentRepo)
	jobService := appscheduling.NewJobService(appointmentRepo, pendingShiftRepo)
	weatherShiftService := appscheduling.NewWeatherShiftService(
		tenantRepo, appointmentRepo, pendingShiftRepo, geocoder, forecasts, cfg.Weather.RainThreshold)
	invoiceService := appbilling.NewInvoiceService(measurementRepo, invoiceRepo)

	documents, err := storage.NewS3DocumentStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize document storage", zap.Error(err))
	}
	if err := documents.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to ensure storage bucket", zap.Error(err))
	}

	var pdfService appbilling.InvoicePDFService
	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(cfg.Printing, log)
		defer func() { _ = renderer.Close() }()
		pdfService = appbilling.NewInvoicePDFService(
			invoiceRepo, customerRepo, tenantRepo, renderer, documents, cfg.Storage.PresignExpiry, log)
	}

	engine := ridgehttp.NewRouter(ridgehttp.RouterConfig{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
		Blacklist:  blacklist,

		HealthHandler:   handler.NewHealthHandler(db, Version),
		AuthHandler:     handler.NewAuthHandler(authService),
		WeatherHandler:  handler.NewWeatherHandler(weatherShiftService),
		JobHandler:      handler.NewJobHandler(jobService),
		CustomerHandler: handler.NewCustomerHandler(customerService),
		LeadHandler:     handler.NewLeadHandler(leadService),
		BillingHandler:  handler.NewBillingHandler(invoiceService, pdfService),
		FileHandler:     handler.NewFileHandler(documents, cfg.Storage.PresignExpiry),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server stopped")
}
