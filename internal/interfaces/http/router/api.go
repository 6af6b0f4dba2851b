package router

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/auth"
	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/telemetry"
	"github.com/invoicer/backend/internal/interfaces/http/handler"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers of the invoicing API
type Handlers struct {
	Auth     *handler.AuthHandler
	Customer *handler.CustomerHandler
	Product  *handler.ProductHandler
	Invoice  *handler.InvoiceHandler
	Settings *handler.SettingsHandler
	Report   *handler.ReportHandler
	Health   *handler.HealthHandler
}

// Dependencies are the collaborators of the middleware chain
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	Revocations auth.RevocationList
	Resolver    *identity.TenantResolver
	Idempotency shared.IdempotencyStore
	// Metrics backs /metrics and HTTP request metrics; nil disables both
	Metrics *telemetry.BusinessMetrics
	Tracing bool
}

// API is the assembled HTTP surface
type API struct {
	Engine   *gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops background workers owned by the middleware chain
func (a *API) Close() {
	for _, l := range a.limiters {
		l.Stop()
	}
}

// New builds the gin engine with the global middleware chain, the health,
// metrics and swagger endpoints, and every /api/v1 route.
func New(h Handlers, deps Dependencies) *API {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	api := &API{Engine: gin.New()}
	engine := api.Engine

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	var observer middleware.HTTPObserver
	if deps.Metrics != nil {
		observer = deps.Metrics
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, deps.Tracing))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(observer, cfg.Telemetry.ServiceName, log))
	engine.Use(middleware.SecureWithConfig(security))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		api.limiters = append(api.limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/health/live", h.Health.Live)
	engine.GET("/health/ready", h.Health.Ready)
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger.Enabled, cfg.Swagger.AllowedIPs),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:         deps.JWTService,
		Revocations:        deps.Revocations,
		AllowSessionHeader: true,
		Logger:             log,
	}))

	authRoutes := NewDomainGroup("auth", "/auth")
	var credentialLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		api.limiters = append(api.limiters, limiter)
		credentialLimit = middleware.RateLimit(limiter)
	}
	authRoutes.POST("/login", credentialLimit, h.Auth.Login)
	authRoutes.POST("/refresh", credentialLimit, h.Auth.RefreshToken)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.GetCurrentUser)
	r.Register(authRoutes)

	scoped := []gin.HandlerFunc{
		middleware.RequireScope(deps.Resolver, log),
		middleware.SpanEnricher(),
	}
	create := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if !cfg.Idempotency.Enabled || deps.Idempotency == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{middleware.Idempotency(deps.Idempotency, cfg.Idempotency.TTL, log), next}
	}

	customers := NewDomainGroup("customers", "/customers").Use(scoped...)
	customers.GET("", h.Customer.List).
		POST("", create(h.Customer.Create)...).
		GET("/search", h.Customer.Search).
		GET("/:id", h.Customer.Get).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Delete)

	products := NewDomainGroup("products", "/products").Use(scoped...)
	products.GET("", h.Product.List).
		POST("", create(h.Product.Create)...).
		GET("/search", h.Product.Search).
		GET("/sku", h.Product.GenerateSKU).
		GET("/:id", h.Product.Get).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)

	invoices := NewDomainGroup("invoices", "/invoices").Use(scoped...)
	invoices.GET("", h.Invoice.List).
		POST("", create(h.Invoice.Create)...).
		GET("/search", h.Invoice.Search).
		GET("/next-number", h.Invoice.NextNumber).
		POST("/calculate", h.Invoice.Calculate).
		GET("/:id", h.Invoice.Get).
		PUT("/:id", h.Invoice.Update).
		DELETE("/:id", h.Invoice.Delete).
		GET("/:id/pdf", h.Invoice.ExportPDF)

	settings := NewDomainGroup("settings", "/settings").Use(scoped...)
	settings.GET("", h.Settings.Get).
		PUT("", h.Settings.Save)

	reports := NewDomainGroup("reports", "/reports").Use(scoped...)
	reports.GET("/summary", h.Report.Summary)

	r.Register(customers).
		Register(products).
		Register(invoices).
		Register(settings).
		Register(reports)
	r.Setup()

	return api
}
