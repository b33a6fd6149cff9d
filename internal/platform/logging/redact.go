package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// header.payload.signature, which covers both platform access tokens and
	// our own session cookies
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)
)

// sensitiveFields are attribute keys whose values never reach a log sink.
// access_token and expires_at travel together inside domain.Credentials, so
// the struct field name matters as much as the JSON name.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"accessToken",
	"access_token",
	"AccessToken",
	"projectToken",
	"project_token",
	"authorization",
	"auth",
	"bearer",
	"cookie",
	"session_cookie",
	"auth_code",
	"signin_state",
	"SignInState",
}

// DefaultRedactOptions returns the masq options applied to every handler.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+3)
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
	)
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions
// that redacts sensitive data. Extra options extend the defaults.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}
