package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Deadline bounds the request context. Routes listed in exempt (gin route
// templates such as "/api/v1/quotes") keep only the server's limits; the
// generation routes are exempt so a model call is never cut off mid-flight.
//
// Handlers are expected to honour ctx.Done(); nothing is aborted here.
func Deadline(timeout time.Duration, exempt ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(exempt))
	for _, route := range exempt {
		skip[route] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok || timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
