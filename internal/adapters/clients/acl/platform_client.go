package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

const serviceName = "platform"

// Compile-time interface checks.
var (
	_ ports.Platform      = (*PlatformClient)(nil)
	_ ports.HealthChecker = (*PlatformClient)(nil)
)

// PlatformClientConfig contains configuration for the platform client.
type PlatformClientConfig struct {
	// Client is the HTTP client to use for API requests. Its BaseURL points at
	// the platform API and its AuthFunc attaches the project token.
	Client *clients.Client

	// SignInURL is the browser-facing authorize page.
	SignInURL string

	// Project identifies this application to the sign-in page.
	Project string

	Logger *slog.Logger

	// Now overrides the clock used to compute credential expiry.
	Now func() time.Time
}

// PlatformClient implements ports.Platform against the hosted platform's
// REST API, translating its wire shapes into domain types.
type PlatformClient struct {
	BaseAdapter

	signInURL string
	project   string
	logger    *slog.Logger
	now       func() time.Time
}

// NewPlatformClient creates a new platform adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewPlatformClient(cfg PlatformClientConfig) *PlatformClient {
	if cfg.Client == nil {
		panic("PlatformClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &PlatformClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, serviceName),
		signInURL:   cfg.SignInURL,
		project:     cfg.Project,
		logger:      logger.With(slog.String("component", "acl.PlatformClient")),
		now:         now,
	}
}

// External DTOs. These never leave the ACL.
type (
	tokenRequest struct {
		Code string `json:"code"`
	}

	tokenResponse struct {
		AccessToken string `json:"accessToken"`
		ExpiresIn   int64  `json:"expiresIn"`
		User        struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}

	runInput struct {
		Messages []ports.Message `json:"messages"`
	}

	responseFormat struct {
		Type       string                `json:"type"`
		JSONSchema *ports.ResponseSchema `json:"json_schema,omitempty"`
	}

	runRequest struct {
		Model          string          `json:"model"`
		Input          runInput        `json:"input"`
		ResponseFormat *responseFormat `json:"response_format,omitempty"`
	}

	runResponse struct {
		Output []json.RawMessage `json:"output"`
	}

	storageValue struct {
		Value json.RawMessage `json:"value"`
	}

	usageResponse struct {
		RemainingCredits int `json:"remainingCredits"`
	}

	subscriptionResponse struct {
		Status string `json:"status"`
		Plan   *struct {
			Name string `json:"name"`
		} `json:"plan"`
	}

	portalRequest struct {
		ReturnURL string `json:"returnUrl"`
	}

	portalResponse struct {
		URL string `json:"url"`
	}
)

// SignInURL builds the authorize URL the browser is redirected to.
func (c *PlatformClient) SignInURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("project", c.project)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)

	sep := "?"
	if strings.Contains(c.signInURL, "?") {
		sep = "&"
	}

	return c.signInURL + sep + q.Encode()
}

// CompleteSignIn exchanges a callback code for credentials.
func (c *PlatformClient) CompleteSignIn(ctx context.Context, code string) (*domain.Credentials, error) {
	if err := ValidateRequired(code, "code"); err != nil {
		return nil, err
	}

	body, err := c.Post(ctx, "/v1/auth/token", tokenRequest{Code: code}, "complete sign-in")
	if err != nil {
		if domain.IsValidation(err) || domain.IsForbidden(err) {
			return nil, domain.NewUnauthenticatedError(err.Error())
		}
		return nil, err
	}

	ext, err := DecodeResponse[tokenResponse](body)
	if err != nil {
		return nil, err
	}

	return c.translateCredentials(ext)
}

func (c *PlatformClient) translateCredentials(ext *tokenResponse) (*domain.Credentials, error) {
	if err := ValidateRequired(ext.AccessToken, "accessToken"); err != nil {
		return nil, err
	}

	if err := ValidateRequired(ext.User.ID, "user.id"); err != nil {
		return nil, err
	}

	creds := &domain.Credentials{
		AccessToken: ext.AccessToken,
		User:        domain.User{ID: ext.User.ID, Email: ext.User.Email},
	}

	if ext.ExpiresIn > 0 {
		creds.ExpiresAt = c.now().Add(time.Duration(ext.ExpiresIn) * time.Second)
	}

	return creds, nil
}

// SignOut revokes the token. A token the platform no longer knows is
// already signed out.
func (c *PlatformClient) SignOut(ctx context.Context, accessToken string) error {
	body, err := c.Post(ctx, "/v1/auth/logout", nil, "sign out", clients.WithBearer(accessToken))
	if err != nil {
		if domain.IsUnauthenticated(err) {
			return nil
		}
		return err
	}

	DiscardResponse(body)

	return nil
}

// Run invokes a hosted model.
func (c *PlatformClient) Run(ctx context.Context, accessToken string, req *ports.ModelRequest) ([]json.RawMessage, error) {
	if req == nil {
		return nil, domain.NewValidationError("request", "is required")
	}

	if err := ValidateRequired(req.Model, "model"); err != nil {
		return nil, err
	}

	ext := runRequest{
		Model: req.Model,
		Input: runInput{Messages: req.Messages},
	}
	if req.Schema != nil {
		ext.ResponseFormat = &responseFormat{Type: "json_schema", JSONSchema: req.Schema}
	}

	c.logger.Log(ctx, logging.LevelTrace, "running model",
		slog.String("model", req.Model),
		slog.Int("messages", len(req.Messages)))

	body, err := c.Post(ctx, "/v1/run", ext, "run model", clients.WithBearer(accessToken))
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[runResponse](body)
	if err != nil {
		return nil, err
	}

	return resp.Output, nil
}

// Get reads a per-user storage value.
func (c *PlatformClient) Get(ctx context.Context, accessToken, key string) (json.RawMessage, error) {
	body, err := c.BaseAdapter.Get(ctx, storagePath(key), "read storage", key, clients.WithBearer(accessToken))
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[storageValue](body)
	if err != nil {
		return nil, err
	}

	if len(resp.Value) == 0 || string(resp.Value) == "null" {
		return nil, domain.NewNotFoundError("storage key", key)
	}

	return resp.Value, nil
}

// Set writes a per-user storage value.
func (c *PlatformClient) Set(ctx context.Context, accessToken, key string, value json.RawMessage) error {
	body, err := c.Put(ctx, storagePath(key), storageValue{Value: value}, "write storage", key, clients.WithBearer(accessToken))
	if err != nil {
		return err
	}

	DiscardResponse(body)

	return nil
}

func storagePath(key string) string {
	return "/v1/storage/" + url.PathEscape(key)
}

// Usage reads the user's remaining credits.
func (c *PlatformClient) Usage(ctx context.Context, accessToken string) (*domain.Usage, error) {
	body, err := c.BaseAdapter.Get(ctx, "/v1/usage", "read usage", "", clients.WithBearer(accessToken))
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[usageResponse](body)
	if err != nil {
		return nil, err
	}

	return &domain.Usage{RemainingCredits: ext.RemainingCredits}, nil
}

// Subscription reads the user's plan. A missing plan is reported as an
// empty name so callers can apply their own default.
func (c *PlatformClient) Subscription(ctx context.Context, accessToken string) (*domain.Subscription, error) {
	body, err := c.BaseAdapter.Get(ctx, "/v1/subscription", "read subscription", "", clients.WithBearer(accessToken))
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[subscriptionResponse](body)
	if err != nil {
		return nil, err
	}

	sub := &domain.Subscription{Status: ext.Status}
	if ext.Plan != nil {
		sub.PlanName = ext.Plan.Name
	}

	return sub, nil
}

// ManageURL asks the platform for a hosted plan management page.
func (c *PlatformClient) ManageURL(ctx context.Context, accessToken, returnURL string) (string, error) {
	body, err := c.Post(ctx, "/v1/subscription/portal", portalRequest{ReturnURL: returnURL}, "open plan management", clients.WithBearer(accessToken))
	if err != nil {
		return "", err
	}

	ext, err := DecodeResponse[portalResponse](body)
	if err != nil {
		return "", err
	}

	if err := ValidateRequired(ext.URL, "url"); err != nil {
		return "", err
	}

	return ext.URL, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *PlatformClient) Name() string {
	return serviceName
}

// Check reports unhealthy while the circuit breaker is open, otherwise
// probes the platform's health endpoint.
// Implements ports.HealthChecker.
func (c *PlatformClient) Check(ctx context.Context) error {
	if c.Client().CircuitState() == clients.StateOpen {
		return errors.New("circuit breaker open")
	}

	body, err := c.BaseAdapter.Get(ctx, "/v1/health", "health check", "")
	if err != nil {
		return fmt.Errorf("platform health: %w", err)
	}

	DiscardResponse(body)

	return nil
}
