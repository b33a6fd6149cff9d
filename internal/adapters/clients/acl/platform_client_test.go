package acl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// setupPlatformClient creates a PlatformClient with a test HTTP server.
func setupPlatformClient(t *testing.T, handler http.HandlerFunc) *PlatformClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig(server.URL)
	cfg.AuthFunc = func(r *http.Request) {
		r.Header.Set("X-Project-Token", "proj-token")
	}

	client, err := clients.New(cfg)
	require.NoError(t, err)

	return NewPlatformClient(PlatformClientConfig{
		Client:    client,
		SignInURL: "https://auth.example.com/authorize",
		Project:   "proj-token",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       func() time.Time { return fixedNow },
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewPlatformClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewPlatformClient(PlatformClientConfig{})
	})
}

func TestPlatformClient_Name(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {})

	assert.Equal(t, "platform", c.Name())
}

func TestPlatformClient_SignInURL(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {})

	raw := c.SignInURL("state-1", "http://localhost:8080/auth/callback")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth.example.com", u.Host)
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "proj-token", u.Query().Get("project"))
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "http://localhost:8080/auth/callback", u.Query().Get("redirect_uri"))
}

func TestPlatformClient_CompleteSignIn(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "proj-token", r.Header.Get("X-Project-Token"))

		var req tokenRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "code-1", req.Code)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"accessToken": "tok",
			"expiresIn":   3600,
			"user":        map[string]string{"id": "u1", "email": "ada@example.com"},
		})
	})

	creds, err := c.CompleteSignIn(context.Background(), "code-1")

	require.NoError(t, err)
	assert.Equal(t, "tok", creds.AccessToken)
	assert.Equal(t, domain.User{ID: "u1", Email: "ada@example.com"}, creds.User)
	assert.Equal(t, fixedNow.Add(time.Hour), creds.ExpiresAt)
}

func TestPlatformClient_CompleteSignIn_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"bad request", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.status, map[string]any{"error": map[string]string{"message": "invalid code"}})
			})

			_, err := c.CompleteSignIn(context.Background(), "bad")
			assert.True(t, domain.IsUnauthenticated(err), "got %v", err)
		})
	}
}

func TestPlatformClient_CompleteSignIn_MissingFields(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"accessToken": ""})
	})

	_, err := c.CompleteSignIn(context.Background(), "code")
	assert.True(t, domain.IsValidation(err))

	_, err = c.CompleteSignIn(context.Background(), "")
	assert.True(t, domain.IsValidation(err))
}

func TestPlatformClient_SignOut(t *testing.T) {
	var gotAuth string

	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SignOut(context.Background(), "tok"))
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestPlatformClient_SignOut_AlreadyRevoked(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	assert.NoError(t, c.SignOut(context.Background(), "stale"))
}

func TestPlatformClient_Run(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/run", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "openai/gpt-4o", body["model"])

		input := body["input"].(map[string]any)
		messages := input["messages"].([]any)
		assert.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])

		format := body["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])
		schema := format["json_schema"].(map[string]any)
		assert.Equal(t, "Quote", schema["name"])
		assert.Equal(t, true, schema["strict"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"output": []any{map[string]string{"text": "Courage is...", "author": "Anonymous Sage"}},
		})
	})

	out, err := c.Run(context.Background(), "tok", &ports.ModelRequest{
		Model: "openai/gpt-4o",
		Messages: []ports.Message{
			{Role: "system", Content: "be wise"},
			{Role: "user", Content: "Generate an inspiring quote about: courage"},
		},
		Schema: &ports.ResponseSchema{Name: "Quote", Strict: true, Schema: map[string]any{"type": "object"}},
	})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.JSONEq(t, `{"text":"Courage is...","author":"Anonymous Sage"}`, string(out[0]))
}

func TestPlatformClient_Run_MeteringErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  int
		check func(error) bool
	}{
		{"insufficient credits", `{"error":{"type":"insufficient_credits"}}`, http.StatusPaymentRequired, domain.IsInsufficientCredits},
		{"rate limited", `{"error":{"type":"rate_limit_exceeded","retryAfter":5000}}`, http.StatusTooManyRequests, domain.IsRateLimited},
		{"server error", `oops`, http.StatusInternalServerError, domain.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Run(context.Background(), "tok", &ports.ModelRequest{Model: "m"})
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

func TestPlatformClient_Run_InvalidRequest(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.Run(context.Background(), "tok", nil)
	assert.True(t, domain.IsValidation(err))

	_, err = c.Run(context.Background(), "tok", &ports.ModelRequest{})
	assert.True(t, domain.IsValidation(err))
}

func TestPlatformClient_Storage(t *testing.T) {
	stored := map[string]json.RawMessage{}

	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path[len("/v1/storage/"):]
		switch r.Method {
		case http.MethodGet:
			v, ok := stored[key]
			if !ok {
				writeJSON(t, w, http.StatusNotFound, map[string]any{"error": map[string]string{"type": "not_found"}})
				return
			}
			writeJSON(t, w, http.StatusOK, map[string]json.RawMessage{"value": v})
		case http.MethodPut:
			var body storageValue
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			stored[key] = body.Value
			w.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()

	_, err := c.Get(ctx, "tok", domain.HistoryKey)
	require.True(t, domain.IsNotFound(err))

	require.NoError(t, c.Set(ctx, "tok", domain.HistoryKey, json.RawMessage(`{"quotes":[]}`)))

	got, err := c.Get(ctx, "tok", domain.HistoryKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"quotes":[]}`, string(got))
}

func TestPlatformClient_Storage_NullValueIsNotFound(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"value": nil})
	})

	_, err := c.Get(context.Background(), "tok", "k")
	assert.True(t, domain.IsNotFound(err))
}

func TestPlatformClient_UsageAndSubscription(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/usage":
			writeJSON(t, w, http.StatusOK, map[string]int{"remainingCredits": 12})
		case "/v1/subscription":
			writeJSON(t, w, http.StatusOK, map[string]any{"status": "active", "plan": map[string]string{"name": "Pro"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	usage, err := c.Usage(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 12, usage.RemainingCredits)

	sub, err := c.Subscription(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "Pro", sub.DisplayPlan())
}

func TestPlatformClient_Subscription_NoPlan(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"status": "none", "plan": nil})
	})

	sub, err := c.Subscription(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, sub.PlanName)
	assert.Equal(t, "Free", sub.DisplayPlan())
}

func TestPlatformClient_ManageURL(t *testing.T) {
	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscription/portal", r.URL.Path)

		var req portalRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "http://localhost:8080/", req.ReturnURL)

		writeJSON(t, w, http.StatusOK, map[string]string{"url": "https://billing.example.com/p/1"})
	})

	got, err := c.ManageURL(context.Background(), "tok", "http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.example.com/p/1", got)
}

func TestPlatformClient_Check(t *testing.T) {
	healthy := true

	c := setupPlatformClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/health", r.URL.Path)
		if healthy {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	require.NoError(t, c.Check(context.Background()))

	healthy = false
	assert.Error(t, c.Check(context.Background()))
}
