// Package main is the entry point for the quote generator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/adapters/session"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// projectTokenHeader identifies this application to the platform API.
const projectTokenHeader = "X-Project-Token"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("session_store", cfg.Session.Store),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Create the platform API client
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Platform.URL,
		ServiceName: "platform",
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		AuthFunc: func(r *nethttp.Request) {
			r.Header.Set(projectTokenHeader, cfg.Platform.Token)
		},
		Transport: &nethttp.Transport{
			Proxy:               nethttp.ProxyFromEnvironment,
			MaxIdleConns:        cfg.Client.Transport.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.Client.Transport.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.Client.Transport.IdleConnTimeout,
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// 7. Create platform adapter (ACL pattern)
	platformClient := acl.NewPlatformClient(acl.PlatformClientConfig{
		Client:    httpClient,
		SignInURL: cfg.Platform.SignIn,
		Project:   cfg.Platform.Token,
		Logger:    logger,
	})

	if err := healthRegistry.Register(platformClient); err != nil {
		return fmt.Errorf("registering platform health check: %w", err)
	}

	// 8. Create the session store
	store, closeStore, err := newSessionStore(ctx, &cfg.Session)
	if err != nil {
		return err
	}
	defer closeStore()

	if checker, ok := store.(ports.HealthChecker); ok {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering session store health check: %w", err)
		}
	}

	// 9. Create the session manager (application layer)
	manager := app.NewSessionManager(app.SessionManagerConfig{
		Platform: platformClient,
		Store:    store,
		Model:    cfg.Platform.Model,
		Logger:   logger,
		Metrics:  app.NewMetrics(prometheus.DefaultRegisterer),

		IdleTimeout: cfg.Session.TTL,
	})

	// 10. Create handlers
	tmpl, err := handlers.Templates(time.Local)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	tokens := session.NewTokenCodec(cfg.Session.Secret, cfg.Session.TTL)
	cookies := middleware.Cookies{Name: cfg.Session.Cookie, Secure: cfg.Session.Secure}

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer)
	pageHandler := handlers.NewPageHandler(handlers.PageConfig{
		Sessions:  manager,
		Tokens:    tokens,
		Cookies:   cookies,
		PublicURL: cfg.Server.PublicURL,
	})
	apiHandler := handlers.NewAPIHandler(manager, cfg.Server.PublicURL)

	// 11. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      logger,
		ServiceName: cfg.App.Name,
		Templates:   tmpl,
		Cookies:     cookies,
		Tokens:      tokens,
		Sessions:    manager,
		Pages:       pageHandler,
		API:         apiHandler,
		Health:      healthHandler,
		Timeout:     http.DefaultRequestTimeout,
	})

	// Flush quote histories still waiting to be written once requests drain
	server.OnShutdown("session manager", manager.Close)

	// 12. Start server (non-blocking)
	serverErr := server.Start()

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, manager, serverErr, cfg.Server.ShutdownTimeout)
}

// newSessionStore builds the configured store. The returned func releases
// its connections.
func newSessionStore(ctx context.Context, cfg *config.SessionConfig) (ports.SessionStore, func(), error) {
	switch cfg.Store {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		store, err := session.NewRedisStore(ctx, client, cfg.Redis.Prefix, cfg.TTL)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connecting session store: %w", err)
		}

		return store, func() { _ = store.Close() }, nil
	case config.SessionStoreMemory:
		return session.NewMemoryStore(cfg.TTL), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then stops the HTTP server, whose hooks let every generator push its
// pending history before returning.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	manager *app.SessionManager,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
		slog.Int("active_sessions", manager.Active()),
	)

	// Stop accepting new requests, drain in-flight, run hooks
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
