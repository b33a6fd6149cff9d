package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

const (
	testToken = "tok-123"
	testModel = "openai/gpt-4o"
)

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return testNow
}

func readyRecord(id string, expiresAt time.Time) *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:    id,
		Phase: domain.SessionReady,
		Credentials: &domain.Credentials{
			AccessToken: testToken,
			User:        domain.User{ID: "u-1", Email: "ada@example.com"},
			ExpiresAt:   expiresAt,
		},
		CreatedAt: testNow,
	}
}
