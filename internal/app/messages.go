package app

import (
	"errors"
	"fmt"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// User-visible generation failure messages.
const (
	MessageInsufficientCredits = "Insufficient credits. Please upgrade your plan to continue."
	MessageGenerateFailed      = "Failed to generate quote. Please try again."

	messageRateLimited = "Rate limit exceeded. Please try again in %d seconds."
)

// ErrGenerateRejected is returned when Generate is called with a blank topic
// or while a generation is already in flight. Nothing changes in that case.
var ErrGenerateRejected = domain.NewConflictError("quote generation", "topic is blank or a generation is in progress")

// Failure is the error banner shown after a failed generation.
type Failure struct {
	Message string `json:"message"`

	// OfferUpgrade is set only when the failure was a credits shortfall.
	OfferUpgrade bool `json:"offerUpgrade"`
}

// Outcome labels for quote_generations_total.
const (
	outcomeSuccess             = "success"
	outcomeInsufficientCredits = "insufficient_credits"
	outcomeRateLimited         = "rate_limited"
	outcomeFailed              = "failed"
)

// classifyFailure maps a generation error to its banner and metric outcome.
func classifyFailure(err error) (Failure, string) {
	if domain.IsInsufficientCredits(err) {
		return Failure{Message: MessageInsufficientCredits, OfferUpgrade: true}, outcomeInsufficientCredits
	}

	var rateLimit *domain.RateLimitError
	if errors.As(err, &rateLimit) {
		return Failure{Message: fmt.Sprintf(messageRateLimited, rateLimit.RetryAfterSeconds())}, outcomeRateLimited
	}

	return Failure{Message: MessageGenerateFailed}, outcomeFailed
}
