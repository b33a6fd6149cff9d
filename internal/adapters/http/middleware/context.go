// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import "context"

type contextKey string

const ctxKeyRequestID contextKey = "request_id"

// RequestIDFromContext extracts the request ID from context.Context so the
// platform client can forward it. Returns "" if unset or ctx is nil.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(ctxKeyRequestID).(string)

	return id
}

// ContextWithRequestID stores a request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}
