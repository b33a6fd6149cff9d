package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrForbidden,
		ErrUnavailable,
		ErrUnauthenticated,
		ErrInsufficientCredits,
		ErrRateLimited,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			entity:      "session",
			id:          "abc",
			expectedMsg: `session with id "abc" not found`,
		},
		{
			name:        "with entity only",
			entity:      "storage key",
			expectedMsg: "storage key not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("generation", "already in progress")

	assert.Equal(t, "generation conflict: already in progress", err.Error())
	require.ErrorIs(t, err, ErrConflict)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ErrConflict, conflict.Unwrap())
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "topic",
			message:     "must not be empty",
			expectedMsg: "validation failed for topic: must not be empty",
		},
		{
			name:        "without field",
			message:     "general validation error",
			expectedMsg: "validation failed: general validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestValidationErrorWithValue(t *testing.T) {
	err := NewValidationErrorWithValue("key", "unsupported", "Tab")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Tab", validation.Value)
}

func TestForbiddenError(t *testing.T) {
	tests := []struct {
		name        string
		operation   string
		reason      string
		expectedMsg string
	}{
		{
			name:        "with reason",
			operation:   "complete sign-in",
			reason:      "state mismatch",
			expectedMsg: `operation "complete sign-in" forbidden: state mismatch`,
		},
		{
			name:        "without reason",
			operation:   "sign out",
			expectedMsg: `operation "sign out" forbidden`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewForbiddenError(tt.operation, tt.reason)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailableError("platform", "circuit breaker open")

	assert.Equal(t, `service "platform" unavailable: circuit breaker open`, err.Error())
	require.ErrorIs(t, err, ErrUnavailable)

	assert.Equal(t, `service "cache" unavailable`, NewUnavailableError("cache", "").Error())
}

func TestUnauthenticatedError(t *testing.T) {
	assert.Equal(t, "unauthenticated", NewUnauthenticatedError("").Error())
	assert.Equal(t, "unauthenticated: session expired", NewUnauthenticatedError("session expired").Error())
	require.ErrorIs(t, NewUnauthenticatedError("x"), ErrUnauthenticated)
}

func TestInsufficientCreditsError(t *testing.T) {
	err := NewInsufficientCreditsError("plan exhausted")

	assert.Equal(t, "insufficient credits: plan exhausted", err.Error())
	assert.Equal(t, "insufficient credits", NewInsufficientCreditsError("").Error())
	require.ErrorIs(t, err, ErrInsufficientCredits)
}

func TestRateLimitError(t *testing.T) {
	tests := []struct {
		name        string
		retryAfter  time.Duration
		seconds     int
		expectedMsg string
	}{
		{"no hint", 0, 0, "rate limited"},
		{"whole seconds", 5 * time.Second, 5, "rate limited: retry after 5s"},
		{"rounds up", 1500 * time.Millisecond, 2, "rate limited: retry after 1.5s"},
		{"sub second", time.Millisecond, 1, "rate limited: retry after 1ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRateLimitError(tt.retryAfter)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrRateLimited)

			var rateLimit *RateLimitError
			require.ErrorAs(t, err, &rateLimit)
			assert.Equal(t, tt.seconds, rateLimit.RetryAfterSeconds())
		})
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound with NotFoundError", NewNotFoundError("session", "1"), IsNotFound, true},
		{"IsNotFound with wrapped", fmt.Errorf("wrapped: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound with other error", ErrConflict, IsNotFound, false},
		{"IsNotFound with nil", nil, IsNotFound, false},

		{"IsConflict with ConflictError", NewConflictError("generation", "busy"), IsConflict, true},
		{"IsConflict with other error", ErrNotFound, IsConflict, false},

		{"IsValidation with ValidationError", NewValidationError("topic", "empty"), IsValidation, true},
		{"IsValidation with nil", nil, IsValidation, false},

		{"IsForbidden with ForbiddenError", NewForbiddenError("x", ""), IsForbidden, true},
		{"IsForbidden with other error", ErrNotFound, IsForbidden, false},

		{"IsUnavailable with UnavailableError", NewUnavailableError("platform", ""), IsUnavailable, true},
		{"IsUnavailable with wrapped", fmt.Errorf("wrapped: %w", ErrUnavailable), IsUnavailable, true},

		{"IsUnauthenticated with error", NewUnauthenticatedError(""), IsUnauthenticated, true},
		{"IsUnauthenticated with other error", ErrForbidden, IsUnauthenticated, false},

		{"IsInsufficientCredits with error", NewInsufficientCreditsError(""), IsInsufficientCredits, true},
		{"IsInsufficientCredits with wrapped", fmt.Errorf("run: %w", NewInsufficientCreditsError("")), IsInsufficientCredits, true},
		{"IsInsufficientCredits with rate limit", NewRateLimitError(0), IsInsufficientCredits, false},

		{"IsRateLimited with error", NewRateLimitError(time.Second), IsRateLimited, true},
		{"IsRateLimited with credits error", NewInsufficientCreditsError(""), IsRateLimited, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	original := NewRateLimitError(3 * time.Second)
	wrapped := fmt.Errorf("layer2: %w", fmt.Errorf("layer1: %w", original))

	assert.True(t, IsRateLimited(wrapped))

	var rateLimit *RateLimitError
	require.ErrorAs(t, wrapped, &rateLimit)
	assert.Equal(t, 3*time.Second, rateLimit.RetryAfter)
}
