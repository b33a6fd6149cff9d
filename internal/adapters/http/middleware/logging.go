package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

// Logging seeds the request context with a logger carrying request_id and,
// when tracing is on, trace_id, then logs one line per completed request.
// Probe paths under /-/ and any skipPaths get the logger but no access line.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		ctx := logging.WithContext(c.Request.Context(), logger)
		if id := GetRequestID(c); id != "" {
			ctx = logging.WithRequestID(ctx, id)
		}
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			ctx = logging.WithTraceID(ctx, sc.TraceID().String())
		}
		c.Request = c.Request.WithContext(ctx)

		path := c.Request.URL.Path
		if _, ok := skip[path]; ok || strings.HasPrefix(path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		// Handlers may have added user_id after the session resolved.
		logging.FromContext(c.Request.Context()).Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
