package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/infrastructure/config"
	"github.com/ledger/backend/internal/infrastructure/logger"
	"github.com/ledger/backend/internal/interfaces/http/dto"
	"github.com/ledger/backend/internal/interfaces/http/handler"
	"github.com/ledger/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers the engine mounts
type Handlers struct {
	Health         *handler.HealthHandler
	Companies      *handler.CompanyHandler
	Accounts       *handler.AccountHandler
	Journals       *handler.JournalHandler
	Partners       *handler.PartnerHandler
	JournalEntries *handler.JournalEntryHandler
	Invoices       *handler.InvoiceHandler
}

// EngineConfig carries what NewEngine needs besides the handlers
type EngineConfig struct {
	Logger  *zap.Logger
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	// Companies resolves the company of scoped requests
	Companies middleware.CompanyResolver
	// DefaultCompanyID is used when a request has no X-Company-ID header.
	// uuid.Nil falls back to the oldest company.
	DefaultCompanyID uuid.UUID
}

// NewEngine builds the gin engine serving /health and the /api/v1 ledger routes
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(cfg.Tracing),
		middleware.SpanAttributes(),
		middleware.CORSWithConfig(cors),
		middleware.Secure(),
	)
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	engine.GET("/health", h.Health.Check)

	companies := NewDomainGroup("companies", "/companies")
	companies.POST("", h.Companies.Create).
		GET("", h.Companies.List).
		GET("/:id", h.Companies.Get)

	scoped := NewDomainGroup("ledger", "")
	scoped.Use(middleware.CompanyScope(cfg.Companies, cfg.DefaultCompanyID))
	scoped.Group("accounts", "/accounts").
		POST("", h.Accounts.Create).
		GET("", h.Accounts.List).
		GET("/:id", h.Accounts.Get)
	scoped.Group("journals", "/journals").
		POST("", h.Journals.Create).
		GET("", h.Journals.List).
		GET("/:id", h.Journals.Get)
	scoped.Group("partners", "/partners").
		POST("", h.Partners.Create).
		GET("", h.Partners.List).
		GET("/:id", h.Partners.Get)
	scoped.Group("journal-entries", "/journal-entries").
		POST("", h.JournalEntries.Create).
		GET("", h.JournalEntries.List).
		GET("/:id", h.JournalEntries.Get).
		POST("/:id/post", h.JournalEntries.Post)
	scoped.Group("invoices", "/invoices").
		POST("", h.Invoices.Create).
		GET("", h.Invoices.List).
		GET("/:id", h.Invoices.Get).
		POST("/:id/post", h.Invoices.Post)

	api := NewRouter(engine)
	api.Register(companies).Register(scoped).Setup()
	for _, g := range []*DomainGroup{companies, scoped} {
		for _, rt := range g.Routes(api.Prefix()) {
			log.Debug("route registered",
				zap.String("group", rt.Group),
				zap.String("method", rt.Method),
				zap.String("path", rt.Path),
			)
		}
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "route "+c.Request.URL.Path+" not found", middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, c.Request.Method+" is not allowed on "+c.Request.URL.Path, middleware.GetRequestID(c)))
	})
	return engine, nil
}
