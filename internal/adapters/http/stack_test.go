package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/adapters/session"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

const stackPublicURL = "https://quotes.example.com"

var stackCookies = middleware.Cookies{Name: "qg_session"}

// testStack is the whole service in process: real router, handlers, session
// manager and platform client, talking to a fakePlatform over HTTP.
type testStack struct {
	platform *fakePlatform
	manager  *app.SessionManager
	metrics  *prometheus.Registry
	engine   *gin.Engine
}

func newTestStack() (*testStack, error) {
	platform := newFakePlatform()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := clients.New(&clients.Config{
		BaseURL:     platform.URL(),
		ServiceName: "platform",
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: logger,
	})
	if err != nil {
		platform.Close()
		return nil, fmt.Errorf("creating platform client: %w", err)
	}

	platformClient := acl.NewPlatformClient(acl.PlatformClientConfig{
		Client:    client,
		SignInURL: platform.URL() + "/signin",
		Project:   "quote-generator",
		Logger:    logger,
	})

	reg := prometheus.NewRegistry()
	tokens := session.NewTokenCodec(strings.Repeat("k", config.MinSessionSecretLength), time.Hour)

	manager := app.NewSessionManager(app.SessionManagerConfig{
		Platform: platformClient,
		Store:    session.NewMemoryStore(time.Hour),
		Model:    config.DefaultModel,
		Logger:   logger,
		Metrics:  app.NewMetrics(reg),
	})

	health := ports.NewHealthRegistry()
	if err := health.Register(platformClient); err != nil {
		platform.Close()
		return nil, err
	}

	tmpl, err := handlers.Templates(time.UTC)
	if err != nil {
		platform.Close()
		return nil, err
	}

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:      logger,
		ServiceName: "quote-generator",
		Templates:   tmpl,
		Cookies:     stackCookies,
		Tokens:      tokens,
		Sessions:    manager,
		Pages: handlers.NewPageHandler(handlers.PageConfig{
			Sessions:  manager,
			Tokens:    tokens,
			Cookies:   stackCookies,
			PublicURL: stackPublicURL,
		}),
		API:     handlers.NewAPIHandler(manager, stackPublicURL),
		Health:  handlers.NewHealthHandler(health, handlers.NewBuildInfo("test", "none", "unknown"), reg),
		Timeout: DefaultRequestTimeout,
	})

	return &testStack{platform: platform, manager: manager, metrics: reg, engine: engine}, nil
}

func (s *testStack) Close() {
	_ = s.manager.Close(context.Background())
	s.platform.Close()
}

// browser keeps the session cookie between requests, like a real one.
type browser struct {
	stack  *testStack
	cookie *http.Cookie
}

func (b *browser) do(method, target, body, contentType string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	w := httptest.NewRecorder()
	b.stack.engine.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name != stackCookies.Name {
			continue
		}
		if c.Value == "" {
			b.cookie = nil
		} else {
			b.cookie = c
		}
	}

	return w
}

// signIn walks the redirect flow. With forge set the callback carries a
// state the session never issued.
func (b *browser) signIn(email string, forge bool) error {
	w := b.do(http.MethodPost, "/signin", "", "")
	if w.Code != http.StatusSeeOther {
		return fmt.Errorf("sign-in: status %d: %s", w.Code, w.Body.String())
	}

	authorize, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		return err
	}

	if got := authorize.Query().Get("redirect_uri"); got != stackPublicURL+handlers.CallbackPath {
		return fmt.Errorf("sign-in: redirect_uri %q", got)
	}

	state := authorize.Query().Get("state")
	if forge {
		state = "forged-" + state
	}

	q := url.Values{"state": {state}, "code": {"code-" + email}}

	w = b.do(http.MethodGet, handlers.CallbackPath+"?"+q.Encode(), "", "")
	if w.Code != http.StatusSeeOther {
		return fmt.Errorf("callback: status %d", w.Code)
	}

	return nil
}
