// Package http serves the quote generator over Gin: the sign-in gate and
// generator pages, the JSON API and the operational probes.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-generator/internal/platform/config"
)

// ShutdownHook runs after the server has stopped taking requests. The
// session manager registers one to flush quote histories still waiting to
// be written.
type ShutdownHook struct {
	Name string
	Run  func(context.Context) error
}

// Server is the quote generator's HTTP front: a Gin engine behind an
// http.Server, with a body size cap and an ordered shutdown.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     *config.ServerConfig
	logger     *slog.Logger

	mu    sync.Mutex
	hooks []ShutdownHook
}

// New builds the server in release mode with the request size cap installed.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(maxBodySize(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		config: cfg,
		logger: logger,
	}
}

// Engine returns the underlying Gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Config() *config.ServerConfig {
	return s.config
}

// OnShutdown registers a hook. Hooks run in registration order once
// in-flight requests have finished, so a request that was generating a quote
// gets its history write queued before the hook flushes it.
func (s *Server) OnShutdown(name string, run func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, ShutdownHook{Name: name, Run: run})
}

// Start serves in the background. The returned channel yields a listen
// error, if any, and is closed when the server stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", s.httpServer.Addr),
			slog.String("public_url", s.config.PublicURL),
			slog.Duration("read_timeout", s.config.ReadTimeout),
			slog.Duration("write_timeout", s.config.WriteTimeout),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}

		close(errCh)
	}()

	return errCh
}

// Shutdown stops accepting connections, waits for in-flight requests, then
// runs the shutdown hooks. Every hook runs even if the server or an earlier
// hook failed; ctx bounds the whole sequence.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	var errs []error

	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}

	s.mu.Lock()
	hooks := append([]ShutdownHook(nil), s.hooks...)
	s.mu.Unlock()

	for _, hook := range hooks {
		if err := hook.Run(ctx); err != nil {
			s.logger.Error("shutdown hook failed", slog.String("hook", hook.Name), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", hook.Name, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info("HTTP server stopped", slog.Int("hooks", len(hooks)))

	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// maxBodySize returns middleware that limits the request body size.
func maxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
