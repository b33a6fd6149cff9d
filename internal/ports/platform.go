// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrRateLimited, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"encoding/json"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// Authenticator drives the hosted platform's sign-in flow.
type Authenticator interface {
	// SignInURL returns where to send the browser to start signing in.
	// state is echoed back on the callback and must be checked by the caller.
	SignInURL(state, redirectURI string) string

	// CompleteSignIn exchanges the callback code for user credentials.
	// Returns domain.ErrUnauthenticated if the platform rejects the code.
	CompleteSignIn(ctx context.Context, code string) (*domain.Credentials, error)

	// SignOut revokes the access token on the platform.
	SignOut(ctx context.Context, accessToken string) error
}

// ModelRunner invokes a hosted model on behalf of the signed-in user.
type ModelRunner interface {
	// Run issues one model request and returns its structured outputs in order.
	// Returns domain.ErrInsufficientCredits or domain.ErrRateLimited when the
	// platform refuses the call for metering reasons.
	Run(ctx context.Context, accessToken string, req *ModelRequest) ([]json.RawMessage, error)
}

// KeyValueStore is the per-user persisted storage primitive.
type KeyValueStore interface {
	// Get returns the stored value for key.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, accessToken, key string) (json.RawMessage, error)

	// Set replaces the stored value for key.
	Set(ctx context.Context, accessToken, key string, value json.RawMessage) error
}

// Billing exposes read-only metering and subscription state.
type Billing interface {
	// Usage returns the user's remaining credits.
	Usage(ctx context.Context, accessToken string) (*domain.Usage, error)

	// Subscription returns the user's plan.
	Subscription(ctx context.Context, accessToken string) (*domain.Subscription, error)

	// ManageURL returns a platform-hosted page for upgrading or managing the plan.
	ManageURL(ctx context.Context, accessToken, returnURL string) (string, error)
}

// Platform is the full hosted platform as one collaborator.
type Platform interface {
	Authenticator
	ModelRunner
	KeyValueStore
	Billing
}

// SessionStore persists browser sessions between requests.
type SessionStore interface {
	// Get returns the record for id.
	// Returns domain.ErrNotFound if the session is unknown or expired.
	Get(ctx context.Context, id string) (*domain.SessionRecord, error)

	// Save creates or replaces the record.
	Save(ctx context.Context, record *domain.SessionRecord) error

	// Delete removes the record. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error
}

// Message is one role-tagged entry in a model request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseSchema constrains model output to a named JSON schema.
type ResponseSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// ModelRequest is a single model invocation.
type ModelRequest struct {
	Model    string
	Messages []Message
	Schema   *ResponseSchema
}
