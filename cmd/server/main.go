package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/invoicer/backend/internal/application/catalog"
	identityapp "github.com/invoicer/backend/internal/application/identity"
	invoicingapp "github.com/invoicer/backend/internal/application/invoicing"
	partnerapp "github.com/invoicer/backend/internal/application/partner"
	reportapp "github.com/invoicer/backend/internal/application/report"
	settingsapp "github.com/invoicer/backend/internal/application/settings"
	"github.com/invoicer/backend/internal/domain/numbering"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/auth"
	"github.com/invoicer/backend/internal/infrastructure/cache"
	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/export"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/persistence"
	"github.com/invoicer/backend/internal/infrastructure/storage"
	"github.com/invoicer/backend/internal/infrastructure/telemetry"
	"github.com/invoicer/backend/internal/interfaces/http/handler"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
	"github.com/invoicer/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/invoicer/backend/docs"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Invoicer API
//	@version		1.0
//	@description	Multi-tenant GST invoicing backend: customers, products, invoices and PDF export.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@securityDefinitions.apikey	SessionAuth
//	@in							header
//	@name						X-Session-ID

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, version, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			bootLog.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	// rebuild the logger so entries also reach the OTLP logs pipeline
	log, err := logger.New(logCfg, tel.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoicer",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
		zap.String("db_driver", cfg.Database.Driver),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		Tracing:         tel.TracingEnabled() && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        cfg.Database.Driver,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	// sqlite schemas are created in place; postgres and mysql go through cmd/migrate
	if cfg.Database.Driver == config.DriverSQLite {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	var (
		redisClient *redis.Client
		sessions    auth.SessionStore
		revocations auth.RevocationList
		idempotency shared.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		sessions = auth.NewRedisSessionStore(redisClient)
		revocations = auth.NewRedisRevocationList(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memorySessions := auth.NewInMemorySessionStore(time.Minute)
		defer func() { _ = memorySessions.Close() }()
		sessions = memorySessions
		revocations = auth.NewMemoryRevocationList()
		log.Warn("Redis not configured; sessions and revoked tokens are kept in memory")
	}
	if cfg.Idempotency.Enabled {
		idempotency, err = cache.NewIdempotencyStoreFactory(cfg.Redis, redisClient,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.App.IsProduction()),
		).CreateStore()
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() {
			if err := idempotency.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}()
	}

	var metrics *telemetry.BusinessMetrics
	generatorOpts := []numbering.Option{numbering.WithMaxAttempts(cfg.Numbering.MaxAttempts)}
	invoiceOpts := []invoicingapp.Option{invoicingapp.WithLogger(log.Named("invoicing"))}
	if cfg.Telemetry.PrometheusEnabled {
		metrics = telemetry.NewBusinessMetrics()
		generatorOpts = append(generatorOpts, numbering.WithObserver(metrics))
		invoiceOpts = append(invoiceOpts, invoicingapp.WithMetrics(metrics))
	}
	generator := numbering.NewGenerator(generatorOpts...)

	renderer, err := export.NewRenderer(cfg.Export, log.Named("export"))
	if err != nil {
		log.Fatal("Failed to initialize invoice renderer", zap.Error(err))
	}
	var archive storage.Archive
	if cfg.Export.ArchiveEnabled {
		archive, err = storage.NewArchive(ctx, cfg.Storage, log.Named("storage"))
		if err != nil {
			log.Fatal("Failed to initialize invoice archive", zap.Error(err))
		}
	}
	invoiceOpts = append(invoiceOpts, invoicingapp.WithExport(renderer, archive, invoicingapp.ExportOptions{
		Archive:         archive != nil,
		DownloadExpires: cfg.Storage.PresignExpiration,
	}))

	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	resolver := auth.NewTenantResolver(sessions)

	authService := identityapp.NewAuthService(userRepo, jwtService, sessions, revocations, resolver,
		identityapp.DefaultAuthServiceConfig(), log.Named("auth"))
	settingsService := settingsapp.NewService(settingsRepo, settingsapp.WithDefaultPrefix(cfg.Numbering.InvoicePrefix))
	customerService := partnerapp.NewCustomerService(customerRepo)
	productService := catalogapp.NewProductService(productRepo, generator)
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, customerRepo, productRepo,
		settingsService, generator, invoiceOpts...)
	reportService := reportapp.NewReportService(invoiceRepo)

	checks := map[string]handler.ReadinessCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	api := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Customer: handler.NewCustomerHandler(customerService),
		Product:  handler.NewProductHandler(productService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Settings: handler.NewSettingsHandler(settingsService),
		Report:   handler.NewReportHandler(reportService),
		Health:   handler.NewHealthHandler(version, checks),
	}, router.Dependencies{
		Config:      cfg,
		Logger:      log,
		JWTService:  jwtService,
		Revocations: revocations,
		Resolver:    resolver,
		Idempotency: idempotency,
		Metrics:     metrics,
		Tracing:     tel.TracingEnabled(),
	})
	defer api.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        api.Engine,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
