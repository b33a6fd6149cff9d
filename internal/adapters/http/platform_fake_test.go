package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// fakePlatform is an in-memory stand-in for the hosted platform's REST API.
// Users sign in with code "code-<email>".
type fakePlatform struct {
	server *httptest.Server

	mu        sync.Mutex
	users     map[string]*fakeUser // by access token
	accounts  map[string]*fakeUser // by email
	rateLimit time.Duration
	runs      int
}

type fakeUser struct {
	id      string
	email   string
	credits int
	plan    string
	storage map[string]json.RawMessage
}

func newFakePlatform() *fakePlatform {
	p := &fakePlatform{
		users:    make(map[string]*fakeUser),
		accounts: make(map[string]*fakeUser),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/token", p.token)
	mux.HandleFunc("POST /v1/auth/logout", p.authed(p.logout))
	mux.HandleFunc("POST /v1/run", p.authed(p.run))
	mux.HandleFunc("GET /v1/storage/{key}", p.authed(p.getValue))
	mux.HandleFunc("PUT /v1/storage/{key}", p.authed(p.putValue))
	mux.HandleFunc("GET /v1/usage", p.authed(p.usage))
	mux.HandleFunc("GET /v1/subscription", p.authed(p.subscription))
	mux.HandleFunc("POST /v1/subscription/portal", p.authed(p.portal))
	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	p.server = httptest.NewServer(mux)

	return p
}

func (p *fakePlatform) Close() { p.server.Close() }

func (p *fakePlatform) URL() string { return p.server.URL }

// addUser registers an account, or updates the credits of an existing one.
func (p *fakePlatform) addUser(email string, credits int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u, ok := p.accounts[email]; ok {
		u.credits = credits
		return
	}

	p.accounts[email] = &fakeUser{
		id:      fmt.Sprintf("user-%d", len(p.accounts)+1),
		email:   email,
		credits: credits,
		storage: make(map[string]json.RawMessage),
	}
}

func (p *fakePlatform) setCredits(email string, credits int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accounts[email].credits = credits
}

func (p *fakePlatform) setPlan(email, plan string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accounts[email].plan = plan
}

// rateLimitNext makes the next model run answer 429 with retryAfter.
func (p *fakePlatform) rateLimitNext(retryAfter time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rateLimit = retryAfter
}

// stored returns the raw value saved under key for email.
func (p *fakePlatform) stored(email, key string) json.RawMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u, ok := p.accounts[email]; ok {
		return u.storage[key]
	}

	return nil
}

func (p *fakePlatform) runCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.runs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePlatformError(w http.ResponseWriter, status int, kind, message string, retryAfterMs int64) {
	body := map[string]any{"type": kind, "message": message}
	if retryAfterMs > 0 {
		body["retryAfter"] = retryAfterMs
	}

	writeJSON(w, status, map[string]any{"error": body})
}

func (p *fakePlatform) authed(next func(http.ResponseWriter, *http.Request, *fakeUser)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		p.mu.Lock()
		u, ok := p.users[token]
		p.mu.Unlock()

		if !ok {
			writePlatformError(w, http.StatusUnauthorized, "unauthorized", "unknown token", 0)
			return
		}

		next(w, r, u)
	}
}

func (p *fakePlatform) token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePlatformError(w, http.StatusBadRequest, "invalid_request", err.Error(), 0)
		return
	}

	p.mu.Lock()
	u, ok := p.accounts[strings.TrimPrefix(req.Code, "code-")]
	token := fmt.Sprintf("tok-%d", len(p.users)+1)
	if ok {
		p.users[token] = u
	}
	p.mu.Unlock()

	if !ok {
		writePlatformError(w, http.StatusBadRequest, "invalid_grant", "unknown code", 0)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": token,
		"expiresIn":   3600,
		"user":        map[string]string{"id": u.id, "email": u.email},
	})
}

func (p *fakePlatform) logout(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	p.mu.Lock()
	delete(p.users, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	p.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (p *fakePlatform) run(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	var req struct {
		Model string `json:"model"`
		Input struct {
			Messages []ports.Message `json:"messages"`
		} `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePlatformError(w, http.StatusBadRequest, "invalid_request", err.Error(), 0)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.runs++

	if p.rateLimit > 0 {
		retryAfter := p.rateLimit
		p.rateLimit = 0
		writePlatformError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "slow down", retryAfter.Milliseconds())
		return
	}

	if u.credits <= 0 {
		writePlatformError(w, http.StatusPaymentRequired, "insufficient_credits", "no credits left", 0)
		return
	}

	u.credits--

	var topic string
	if n := len(req.Input.Messages); n > 0 {
		topic = strings.TrimPrefix(req.Input.Messages[n-1].Content, "Generate an inspiring quote about: ")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"output": []map[string]string{{
			"text":   fmt.Sprintf("On %s, every step counts (%d).", topic, p.runs),
			"author": "Ilsa Thornquill",
		}},
	})
}

func (p *fakePlatform) getValue(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	p.mu.Lock()
	value, ok := u.storage[r.PathValue("key")]
	p.mu.Unlock()

	if !ok {
		writePlatformError(w, http.StatusNotFound, "not_found", "no such key", 0)
		return
	}

	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"value": value})
}

func (p *fakePlatform) putValue(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePlatformError(w, http.StatusBadRequest, "invalid_request", err.Error(), 0)
		return
	}

	p.mu.Lock()
	u.storage[r.PathValue("key")] = req.Value
	p.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (p *fakePlatform) usage(w http.ResponseWriter, _ *http.Request, u *fakeUser) {
	p.mu.Lock()
	credits := u.credits
	p.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{"remainingCredits": credits})
}

func (p *fakePlatform) subscription(w http.ResponseWriter, _ *http.Request, u *fakeUser) {
	p.mu.Lock()
	plan := u.plan
	p.mu.Unlock()

	if plan == "" {
		writeJSON(w, http.StatusOK, map[string]any{"status": "none", "plan": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "active", "plan": map[string]string{"name": plan}})
}

func (p *fakePlatform) portal(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	var req struct {
		ReturnURL string `json:"returnUrl"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	writeJSON(w, http.StatusOK, map[string]string{
		"url": "https://billing.example.com/portal?return=" + req.ReturnURL,
	})
}

// storedQuotes decodes the history the platform holds for email.
func (p *fakePlatform) storedQuotes(email string) (int, error) {
	raw := p.stored(email, domain.HistoryKey)
	if raw == nil {
		return 0, nil
	}

	var history domain.QuoteHistory
	if err := json.Unmarshal(raw, &history); err != nil {
		return 0, err
	}

	return history.Len(), nil
}
