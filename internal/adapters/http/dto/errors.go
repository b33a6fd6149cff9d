// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

// ContextKeyTraceID lets handlers override the trace ID reported in error
// envelopes.
const ContextKeyTraceID = "trace_id"

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "UNAUTHORIZED", "RATE_LIMITED").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details carries field-level messages for validation failures.
	Details map[string]string `json:"details,omitempty"`

	// RetryAfterSeconds is set for RATE_LIMITED.
	RetryAfterSeconds int `json:"retryAfterSeconds,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound            = "NOT_FOUND"
	ErrorCodeConflict            = "CONFLICT"
	ErrorCodeValidation          = "VALIDATION_ERROR"
	ErrorCodeForbidden           = "FORBIDDEN"
	ErrorCodeUnauthorized        = "UNAUTHORIZED"
	ErrorCodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	ErrorCodeRateLimited         = "RATE_LIMITED"
	ErrorCodeUnavailable         = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal            = "INTERNAL_ERROR"
	ErrorCodeTimeout             = "TIMEOUT"
	ErrorCodeBadRequest          = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeInsufficientCredits:
		return http.StatusPaymentRequired
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to a status code and envelope.
// Unknown errors become a generic 500 so internals do not leak.
func MapDomainError(err error) (int, *ErrorResponse) {
	var resp *ErrorResponse

	switch {
	case domain.IsNotFound(err):
		resp = NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		resp = NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		resp = NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{validationErr.Field: validationErr.Message}
		}

	case domain.IsUnauthenticated(err):
		resp = NewErrorResponse(ErrorCodeUnauthorized, err.Error())

	case domain.IsForbidden(err):
		resp = NewErrorResponse(ErrorCodeForbidden, err.Error())

	case domain.IsInsufficientCredits(err):
		resp = NewErrorResponse(ErrorCodeInsufficientCredits, err.Error())

	case domain.IsRateLimited(err):
		resp = NewErrorResponse(ErrorCodeRateLimited, err.Error())

		var rateLimit *domain.RateLimitError
		if errors.As(err, &rateLimit) {
			resp.Error.RetryAfterSeconds = rateLimit.RetryAfterSeconds()
		}

	case domain.IsUnavailable(err):
		resp = NewErrorResponse(ErrorCodeUnavailable, "service temporarily unavailable")

	default:
		resp = NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}

	return HTTPStatusFromCode(resp.Error.Code), resp
}

// GetTraceID returns the ID reported in error envelopes: an explicit
// trace_id on the gin context, then the active span, then the X-Request-ID
// already echoed on the response, then the one the client sent.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		id, _ := v.(string)
		return id
	}

	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	if id := c.Writer.Header().Get("X-Request-ID"); id != "" {
		return id
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes the envelope for err. Internal and unavailable errors
// are logged with the full cause since the client only sees a generic message.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			slog.Int("status", status),
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID))
	}

	if resp.Error.RetryAfterSeconds > 0 {
		c.Header("Retry-After", strconv.Itoa(resp.Error.RetryAfterSeconds))
	}

	c.AbortWithStatusJSON(status, resp)
}

// AbortWithCode aborts with a bare code and message, for adapter-level
// failures that never reach the domain.
func AbortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// AbortWithValidation aborts with 400 and field-level details.
func AbortWithValidation(c *gin.Context, details map[string]string) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)
	c.AbortWithStatusJSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))
}
