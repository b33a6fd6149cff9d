package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

const (
	// ContextKeySessionID is the gin context key for the resolved session ID.
	ContextKeySessionID = "session_id"

	// ContextKeySessionState is the gin context key for the app.SessionState.
	ContextKeySessionState = "session_state"
)

// SessionResolver maps a session ID to its current state.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) app.SessionState
}

// TokenParser verifies a session cookie and returns the session ID in it.
type TokenParser interface {
	Parse(token string) (string, error)
}

// Cookies writes and clears the session cookie.
type Cookies struct {
	Name   string
	Secure bool
}

// Set stores token until expires. The cookie is HttpOnly and SameSite=Lax so
// it survives the top-level redirect back from the platform sign-in page.
func (k Cookies) Set(c *gin.Context, token string, expires time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     k.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   max(int(time.Until(expires).Seconds()), 1),
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie in the browser.
func (k Cookies) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     k.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Sessions resolves the session cookie on every request and stores the
// result for GetSessionState. A cookie that fails verification is cleared
// and the request continues as signed out.
func Sessions(cookies Cookies, tokens TokenParser, resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string

		if raw, err := c.Cookie(cookies.Name); err == nil && raw != "" {
			id, parseErr := tokens.Parse(raw)
			if parseErr != nil {
				logging.FromContext(c.Request.Context()).DebugContext(c.Request.Context(),
					"discarding session cookie", "error", parseErr)
				cookies.Clear(c)
			}
			sessionID = id
		}

		state := resolver.Resolve(c.Request.Context(), sessionID)

		if ready, ok := state.(app.Ready); ok {
			c.Request = c.Request.WithContext(
				logging.WithUserID(c.Request.Context(), ready.Capabilities.User().ID))
		}

		c.Set(ContextKeySessionID, sessionID)
		c.Set(ContextKeySessionState, state)

		c.Next()
	}
}

// RequireReady rejects requests without a signed-in session with 401.
// Mount it after Sessions.
func RequireReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCapabilities(c) == nil {
			dto.AbortWithCode(c, dto.ErrorCodeUnauthorized, "sign in to continue")
			return
		}

		c.Next()
	}
}

// GetSessionState returns the resolved state, Uninitialized when Sessions
// did not run.
func GetSessionState(c *gin.Context) app.SessionState {
	if v, ok := c.Get(ContextKeySessionState); ok {
		if state, ok := v.(app.SessionState); ok {
			return state
		}
	}

	return app.Uninitialized{}
}

// GetSessionID returns the verified session ID from the cookie, if any.
// It is set even when the session itself is unknown or expired.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// GetCapabilities returns the platform handle of a Ready session, or nil.
func GetCapabilities(c *gin.Context) *app.Capabilities {
	if ready, ok := GetSessionState(c).(app.Ready); ok {
		return ready.Capabilities
	}

	return nil
}
