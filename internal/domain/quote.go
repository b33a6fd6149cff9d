// Package domain contains core business entities and rules.
package domain

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// HistoryKey is the per-user storage key holding the quote history.
const HistoryKey = "quote-history"

// Quote is a generated quotation. The author is always a fictitious name.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Validate checks that both fields carry text.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", "must not be empty")
	}

	if strings.TrimSpace(q.Author) == "" {
		return NewValidationError("author", "must not be empty")
	}

	return nil
}

// QuoteHistory is the append-only list of a user's quotes, oldest first.
// LastGeneratedAt is nil until the first quote is appended.
type QuoteHistory struct {
	Quotes          []Quote
	LastGeneratedAt *time.Time
}

// Len returns the number of quotes in the history.
func (h QuoteHistory) Len() int {
	return len(h.Quotes)
}

// Latest returns the most recently appended quote.
func (h QuoteHistory) Latest() (Quote, bool) {
	if len(h.Quotes) == 0 {
		return Quote{}, false
	}

	return h.Quotes[len(h.Quotes)-1], true
}

// Append returns a new history with q added at the end. The receiver is not
// modified. LastGeneratedAt never moves backwards, even if the clock does.
func (h QuoteHistory) Append(q Quote, now time.Time) QuoteHistory {
	quotes := make([]Quote, len(h.Quotes), len(h.Quotes)+1)
	copy(quotes, h.Quotes)

	at := now
	if h.LastGeneratedAt != nil && h.LastGeneratedAt.After(now) {
		at = *h.LastGeneratedAt
	}

	return QuoteHistory{
		Quotes:          append(quotes, q),
		LastGeneratedAt: &at,
	}
}

// Reversed returns the quotes newest first.
func (h QuoteHistory) Reversed() []Quote {
	out := slices.Clone(h.Quotes)
	slices.Reverse(out)

	return out
}

// historyWire is the stored shape: timestamps are unix milliseconds.
type historyWire struct {
	Quotes          []Quote `json:"quotes"`
	LastGeneratedAt *int64  `json:"lastGeneratedAt,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (h QuoteHistory) MarshalJSON() ([]byte, error) {
	w := historyWire{Quotes: h.Quotes}
	if w.Quotes == nil {
		w.Quotes = []Quote{}
	}

	if h.LastGeneratedAt != nil {
		ms := h.LastGeneratedAt.UnixMilli()
		w.LastGeneratedAt = &ms
	}

	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *QuoteHistory) UnmarshalJSON(data []byte) error {
	var w historyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	h.Quotes = w.Quotes
	h.LastGeneratedAt = nil

	if w.LastGeneratedAt != nil {
		at := time.UnixMilli(*w.LastGeneratedAt)
		h.LastGeneratedAt = &at
	}

	return nil
}
