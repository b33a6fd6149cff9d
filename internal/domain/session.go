package domain

import "time"

// SessionPhase is the persisted lifecycle phase of a browser session.
type SessionPhase string

const (
	// SessionPending is a session waiting for the platform sign-in callback.
	SessionPending SessionPhase = "pending"
	// SessionReady is a session holding valid platform credentials.
	SessionReady SessionPhase = "ready"
	// SessionFailed is a session whose sign-in was rejected.
	SessionFailed SessionPhase = "failed"
)

// SessionRecord is what the session store keeps per browser session.
type SessionRecord struct {
	ID          string       `json:"id"`
	Phase       SessionPhase `json:"phase"`
	SignInState string       `json:"sign_in_state,omitempty"`
	Failure     string       `json:"failure,omitempty"`
	Credentials *Credentials `json:"credentials,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
