// Package domain contains the quote generator's business types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// Adapters translate platform responses into them and map them back out
// to HTTP status codes or user-facing messages.
package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the operation collides with work already in progress.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is not permitted.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates the hosted platform is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrUnauthenticated indicates there is no signed-in user for the request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInsufficientCredits indicates the user's plan has no credits left.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrRateLimited indicates the platform throttled the user.
	ErrRateLimited = errors.New("rate limited")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity string
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ForbiddenError provides context for forbidden errors.
type ForbiddenError struct {
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NewForbiddenError creates a forbidden error with context.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// UnauthenticatedError provides context for requests without a usable session.
type UnauthenticatedError struct {
	Reason string
}

// Error implements the error interface.
func (e *UnauthenticatedError) Error() string {
	if e.Reason != "" {
		return "unauthenticated: " + e.Reason
	}

	return "unauthenticated"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnauthenticatedError) Unwrap() error {
	return ErrUnauthenticated
}

// NewUnauthenticatedError creates an unauthenticated error with context.
func NewUnauthenticatedError(reason string) error {
	return &UnauthenticatedError{Reason: reason}
}

// InsufficientCreditsError is returned when a metered call is refused for lack of credits.
type InsufficientCreditsError struct {
	Message string
}

// Error implements the error interface.
func (e *InsufficientCreditsError) Error() string {
	if e.Message != "" {
		return "insufficient credits: " + e.Message
	}

	return "insufficient credits"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *InsufficientCreditsError) Unwrap() error {
	return ErrInsufficientCredits
}

// NewInsufficientCreditsError creates an insufficient credits error.
func NewInsufficientCreditsError(message string) error {
	return &InsufficientCreditsError{Message: message}
}

// RateLimitError is returned when the platform throttles the user.
// RetryAfter is zero when the platform did not say how long to wait.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
	}

	return "rate limited"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// RetryAfterSeconds returns the wait rounded up to whole seconds.
func (e *RateLimitError) RetryAfterSeconds() int {
	if e.RetryAfter <= 0 {
		return 0
	}

	return int(math.Ceil(e.RetryAfter.Seconds()))
}

// NewRateLimitError creates a rate limit error.
func NewRateLimitError(retryAfter time.Duration) error {
	return &RateLimitError{RetryAfter: retryAfter}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsUnauthenticated checks if an error is an unauthenticated error.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsInsufficientCredits checks if an error is an insufficient credits error.
func IsInsufficientCredits(err error) bool {
	return errors.Is(err, ErrInsufficientCredits)
}

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
