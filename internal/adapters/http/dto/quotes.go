package dto

import "time"

// MaxTopicLength bounds the topic accepted over the API.
const MaxTopicLength = 500

// TopicRequest is the body of PUT /api/v1/topic.
type TopicRequest struct {
	Topic string `json:"topic" validate:"max=500"`
}

// GenerateRequest is the body of POST /api/v1/quotes. A nil Topic keeps
// whatever was set before.
type GenerateRequest struct {
	Topic *string `json:"topic" validate:"omitempty,max=500"`
}

// KeyPressRequest is the body of POST /api/v1/keypress.
type KeyPressRequest struct {
	Key string `json:"key" validate:"required,max=32,keyname"`
}

// QuoteResponse is one history entry.
type QuoteResponse struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// UserResponse identifies the signed-in user.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionResponse is the body of GET /api/v1/session.
type SessionResponse struct {
	SignedIn  bool          `json:"signedIn"`
	User      *UserResponse `json:"user,omitempty"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// PlanResponse carries the plan management URL.
type PlanResponse struct {
	URL string `json:"url"`
}
