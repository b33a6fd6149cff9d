package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// ErrorResponse is the platform's error envelope.
// It supports both nested format (error.type/message) and flat format (type/message).
type ErrorResponse struct {
	Error      ErrorDetail `json:"error"`
	Type       string      `json:"type,omitempty"`
	Message    string      `json:"message,omitempty"`
	RetryAfter int64       `json:"retryAfter,omitempty"`
}

// ErrorDetail contains error information from the platform.
// RetryAfter is in milliseconds.
type ErrorDetail struct {
	Type       string            `json:"type"`
	Message    string            `json:"message"`
	RetryAfter int64             `json:"retryAfter,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// GetType returns the error type from either nested or top-level format.
func (e *ErrorResponse) GetType() string {
	if e.Error.Type != "" {
		return e.Error.Type
	}

	return e.Type
}

// GetMessage returns the error message from either nested or top-level format.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// GetRetryAfter returns the retry hint from either format.
func (e *ErrorResponse) GetRetryAfter() time.Duration {
	ms := e.Error.RetryAfter
	if ms == 0 {
		ms = e.RetryAfter
	}

	return time.Duration(ms) * time.Millisecond
}

// Platform error types that map to domain errors.
const (
	TypeInsufficientCredits = "insufficient_credits"
	TypeRateLimitExceeded   = "rate_limit_exceeded"
	TypeNotFound            = "not_found"
	TypeValidation          = "invalid_request"
	TypeUnauthorized        = "unauthorized"
	TypeForbidden           = "forbidden"
)

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty or cannot be parsed.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetType() == "" && errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a platform response or client failure to a domain error.
// Parameters:
//   - resp: The HTTP response (may be nil for transport errors)
//   - clientErr: Any error from the HTTP client (may be nil)
//   - serviceName: Name of the external service for error context
//   - operation: The operation being performed (e.g., "run model", "read storage")
//   - entityID: The ID of the entity being operated on (used for NotFoundError)
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation, entityID string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	// The platform's error type wins over the status code when both are present.
	if errResp != nil {
		if err := mapErrorType(errResp, resp.Header, serviceName, operation, entityID); err != nil {
			return err
		}
	}

	return mapStatusCode(resp.StatusCode, errResp, resp.Header, serviceName, operation, entityID)
}

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapErrorType translates a typed platform error. Returns nil for unknown types.
func mapErrorType(errResp *ErrorResponse, header http.Header, serviceName, operation, entityID string) error {
	switch errResp.GetType() {
	case TypeInsufficientCredits:
		return domain.NewInsufficientCreditsError(errResp.GetMessage())
	case TypeRateLimitExceeded:
		return domain.NewRateLimitError(retryAfter(errResp, header))
	case TypeNotFound:
		return domain.NewNotFoundError(serviceName, entityID)
	case TypeValidation:
		return domain.NewValidationError("", errResp.GetMessage())
	case TypeUnauthorized:
		return domain.NewUnauthenticatedError(errResp.GetMessage())
	case TypeForbidden:
		return domain.NewForbiddenError(operation, errResp.GetMessage())
	default:
		return nil
	}
}

// mapStatusCode translates HTTP status codes to domain errors.
func mapStatusCode(status int, errResp *ErrorResponse, header http.Header, serviceName, operation, entityID string) error {
	message := defaultMessageForStatus(status, operation)
	if errResp != nil && errResp.GetMessage() != "" {
		message = errResp.GetMessage()
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, entityID)

	case http.StatusPaymentRequired:
		return domain.NewInsufficientCreditsError(message)

	case http.StatusTooManyRequests:
		return domain.NewRateLimitError(retryAfter(errResp, header))

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if errResp != nil && errResp.Error.Details != nil {
			for field, msg := range errResp.Error.Details {
				return domain.NewValidationError(field, msg)
			}
		}

		return domain.NewValidationError("", message)

	case http.StatusUnauthorized:
		return domain.NewUnauthenticatedError(message)

	case http.StatusForbidden:
		return domain.NewForbiddenError(operation, message)

	case http.StatusConflict:
		return domain.NewConflictError(serviceName, message)

	default:
		if status >= http.StatusInternalServerError {
			return domain.NewUnavailableError(serviceName, message)
		}

		return domain.NewValidationError("", message)
	}
}

// retryAfter prefers the body's millisecond hint and falls back to the
// Retry-After header in seconds.
func retryAfter(errResp *ErrorResponse, header http.Header) time.Duration {
	if errResp != nil {
		if d := errResp.GetRetryAfter(); d > 0 {
			return d
		}
	}

	if header == nil {
		return 0
	}

	secs, err := strconv.Atoi(header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0
	}

	return time.Duration(secs) * time.Second
}

// defaultMessageForStatus returns a default message for an HTTP status.
func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusPaymentRequired:
		return "insufficient credits"
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusUnauthorized:
		return "authentication required"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
