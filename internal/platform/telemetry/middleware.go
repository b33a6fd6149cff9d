package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Metrics holds the OTel HTTP server instruments. Prometheus counters for
// the quote domain live in the app package.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware records request metrics and echoes the active trace ID in the
// X-Trace-ID response header. Mount it after TracingMiddleware.
func Middleware() gin.HandlerFunc {
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		route := routeAttrs(c)

		if metrics != nil {
			metrics.activeRequests.Add(ctx, 1, metric.WithAttributes(route...))
			defer metrics.activeRequests.Add(ctx, -1, metric.WithAttributes(route...))
		}

		// The trace header has to be set before handlers flush the body.
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			c.Header("X-Trace-ID", sc.TraceID().String())
		}

		c.Next()

		if metrics != nil {
			attrs := append(route, attribute.Int("http.status_code", c.Writer.Status()))
			metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
			metrics.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}
}

// routeAttrs labels by route template so /api/v1/quotes?cursor=... does not
// explode cardinality. Unmatched paths share one label.
func routeAttrs(c *gin.Context) []attribute.KeyValue {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	return []attribute.KeyValue{
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", route),
	}
}

// TracingMiddleware starts a server span per request.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
