package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

// CallbackPath is where the platform sends the browser after sign-in.
const CallbackPath = "/auth/callback"

// failureUnavailable is shown when the session store cannot be read.
const failureUnavailable = "Sign-in is temporarily unavailable. Please try again."

// SessionService is the slice of app.SessionManager the handlers drive.
type SessionService interface {
	BeginSignIn(ctx context.Context, redirectURI string) (sessionID, authorizeURL string, err error)
	CompleteSignIn(ctx context.Context, sessionID, state, code string) error
	SignOut(ctx context.Context, sessionID string) error
	Workspace(ctx context.Context, caps *app.Capabilities) (*app.QuoteGenerator, error)
	Snapshot(ctx context.Context, caps *app.Capabilities) (app.View, error)
	ManagePlanURL(ctx context.Context, caps *app.Capabilities, returnURL string) (string, error)
}

// TokenIssuer signs session cookies.
type TokenIssuer interface {
	Issue(sessionID string) (token string, expiresAt time.Time, err error)
}

// PageConfig wires a PageHandler.
type PageConfig struct {
	Sessions SessionService
	Tokens   TokenIssuer
	Cookies  middleware.Cookies

	// PublicURL is the externally visible origin, e.g. https://quotes.example.com.
	PublicURL string
}

// PageHandler serves the browser flow: the gate, sign-in, sign-out and the
// form-driven generator. Every POST answers with 303 back to the gate.
type PageHandler struct {
	sessions  SessionService
	tokens    TokenIssuer
	cookies   middleware.Cookies
	publicURL string
}

// NewPageHandler creates a page handler.
func NewPageHandler(cfg PageConfig) *PageHandler {
	return &PageHandler{
		sessions:  cfg.Sessions,
		tokens:    cfg.Tokens,
		cookies:   cfg.Cookies,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

type signInPage struct {
	Failure string
}

type appPage struct {
	View app.View
}

// Home is the gate. Only a Ready session ever sees the generator; every
// other state gets the sign-in screen, with a short reason after a failed
// sign-in.
func (h *PageHandler) Home(c *gin.Context) {
	switch state := middleware.GetSessionState(c).(type) {
	case app.Ready:
		view, err := h.sessions.Snapshot(c.Request.Context(), state.Capabilities)
		if err != nil {
			dto.HandleError(c, err)
			return
		}

		c.HTML(http.StatusOK, PageApp, appPage{View: view})
	case app.Failed:
		c.HTML(http.StatusOK, PageSignIn, signInPage{Failure: failureMessage(state.Err)})
	default:
		c.HTML(http.StatusOK, PageSignIn, signInPage{})
	}
}

// failureMessage picks the text for the sign-in screen. Only reasons the
// session manager recorded are shown verbatim.
func failureMessage(err error) string {
	var unauth *domain.UnauthenticatedError
	if errors.As(err, &unauth) && unauth.Reason != "" {
		return unauth.Reason
	}

	if domain.IsUnavailable(err) {
		return failureUnavailable
	}

	return app.FailureRejected
}

// SignIn starts a new sign-in, replacing any previous session cookie, and
// sends the browser to the platform.
func (h *PageHandler) SignIn(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, authorizeURL, err := h.sessions.BeginSignIn(ctx, h.publicURL+CallbackPath)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	token, expires, err := h.tokens.Issue(sessionID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.cookies.Set(c, token, expires)
	c.Redirect(http.StatusSeeOther, authorizeURL)
}

// Callback completes sign-in. Failures are recorded on the session and shown
// by the gate, so every outcome redirects home.
func (h *PageHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionID := middleware.GetSessionID(c); sessionID != "" {
		err := h.sessions.CompleteSignIn(ctx, sessionID, c.Query("state"), c.Query("code"))
		if err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "sign-in callback rejected",
				slog.Any("error", err),
				slog.String("platform_error", c.Query("error")))
		}
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// SignOut forgets the session and clears the cookie even if the store
// could not be updated.
func (h *PageHandler) SignOut(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.sessions.SignOut(ctx, middleware.GetSessionID(c)); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "sign-out failed", slog.Any("error", err))
	}

	h.cookies.Clear(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// Generate handles the topic form. Generation failures become part of the
// view, and a blank topic or a request racing another generation is a no-op.
func (h *PageHandler) Generate(c *gin.Context) {
	caps := middleware.GetCapabilities(c)
	if caps == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	ctx := c.Request.Context()

	g, err := h.sessions.Workspace(ctx, caps)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	g.SetTopic(c.PostForm("topic"))

	// Other failures are already logged and shown in the view.
	if err := g.Generate(ctx); errors.Is(err, app.ErrGenerateRejected) {
		logging.FromContext(ctx).DebugContext(ctx, "generate rejected", slog.Any("error", err))
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Plan sends the user to the platform's plan management page.
func (h *PageHandler) Plan(c *gin.Context) {
	caps := middleware.GetCapabilities(c)
	if caps == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	target, err := h.sessions.ManagePlanURL(c.Request.Context(), caps, h.publicURL+"/")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, target)
}

// RegisterPageRoutes registers the browser routes. Sessions must already be
// mounted on r.
func (h *PageHandler) RegisterPageRoutes(r gin.IRoutes) {
	r.GET("/", h.Home)
	r.POST("/signin", h.SignIn)
	r.GET(CallbackPath, h.Callback)
	r.POST("/signout", h.SignOut)
	r.POST("/generate", h.Generate)
	r.GET("/plan", h.Plan)
}
