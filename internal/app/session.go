package app

import (
	"context"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// SessionState is what the gate sees for a browser session. It is exactly
// one of Uninitialized, Ready or Failed.
type SessionState interface {
	sessionState()
}

// Uninitialized covers no cookie, unknown or expired sessions, and sign-ins
// still waiting for the platform callback.
type Uninitialized struct{}

// Ready carries the only handle to platform operations.
type Ready struct {
	Capabilities *Capabilities
}

// Failed is a sign-in the platform or the anti-forgery check rejected.
type Failed struct {
	Err error
}

func (Uninitialized) sessionState() {}
func (Ready) sessionState()         {}
func (Failed) sessionState()        {}

// Capabilities binds platform operations to one signed-in user. It can only
// be obtained from a Ready session.
type Capabilities struct {
	sessionID string
	creds     domain.Credentials
	platform  ports.Platform
}

func (c *Capabilities) SessionID() string { return c.sessionID }

func (c *Capabilities) User() domain.User { return c.creds.User }

// ExpiresAt is when the platform token lapses; zero means never.
func (c *Capabilities) ExpiresAt() time.Time { return c.creds.ExpiresAt }

// Usage reads the user's remaining credits.
func (c *Capabilities) Usage(ctx context.Context) (*domain.Usage, error) {
	return c.platform.Usage(ctx, c.creds.AccessToken)
}

// Subscription reads the user's plan.
func (c *Capabilities) Subscription(ctx context.Context) (*domain.Subscription, error) {
	return c.platform.Subscription(ctx, c.creds.AccessToken)
}

// ManageURL returns the platform's plan management page.
func (c *Capabilities) ManageURL(ctx context.Context, returnURL string) (string, error) {
	return c.platform.ManageURL(ctx, c.creds.AccessToken, returnURL)
}
