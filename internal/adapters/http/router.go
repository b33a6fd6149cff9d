package http

import (
	"html/template"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests other than quote generation.
const DefaultRequestTimeout = 30 * time.Second

// generationRoutes may run as long as the model takes.
var generationRoutes = []string{"/api/v1/quotes", "/api/v1/keypress"}

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// ServiceName names the server spans.
	ServiceName string

	// Templates renders the pages. Required when Pages is set.
	Templates *template.Template

	// Cookies, Tokens and Sessions resolve the browser session for pages
	// and the API.
	Cookies  middleware.Cookies
	Tokens   middleware.TokenParser
	Sessions middleware.SessionResolver

	Pages  *handlers.PageHandler
	API    *handlers.APIHandler
	Health *handlers.HealthHandler

	// Timeout is the API request deadline. Generation routes are exempt.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware, first to last:
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Tracing - server span per request
//  4. Metrics - request counters, X-Trace-ID header
//  5. Logging - request logger in context, access line (skips /-/)
//
// Route groups:
//   - /-/ (internal): probes, no session lookup
//   - / (pages): session resolved, sign-in gate
//   - /api/v1/ (JSON): session resolved, deadline outside generation
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterHealthRoutesOnEngine(engine)
	}

	sessions := middleware.Sessions(cfg.Cookies, cfg.Tokens, cfg.Sessions)

	if cfg.Pages != nil {
		engine.SetHTMLTemplate(cfg.Templates)
		cfg.Pages.RegisterPageRoutes(engine.Group("/", sessions))
	}

	if cfg.API != nil {
		apiV1 := engine.Group("/api/v1", sessions, middleware.Deadline(cfg.Timeout, generationRoutes...))
		cfg.API.RegisterAPIRoutes(apiV1)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for tests.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}
