package domain

import "time"

// DefaultPlanName is shown when the platform reports no subscription plan.
const DefaultPlanName = "Free"

// User is the signed-in platform identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Credentials are issued by the platform when sign-in completes.
type Credentials struct {
	AccessToken string    `json:"access_token"`
	User        User      `json:"user"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the credentials are past their expiry.
// A zero ExpiresAt never expires.
func (c Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Usage is a read-only snapshot of the user's metering counters.
type Usage struct {
	RemainingCredits int
}

// Subscription is a read-only snapshot of the user's billing status.
type Subscription struct {
	Status   string
	PlanName string
}

// DisplayPlan returns the plan name, falling back to DefaultPlanName.
func (s Subscription) DisplayPlan() string {
	if s.PlanName == "" {
		return DefaultPlanName
	}

	return s.PlanName
}

// Account groups the header data shown above the generator.
type Account struct {
	User         User
	Usage        Usage
	Subscription Subscription
}
