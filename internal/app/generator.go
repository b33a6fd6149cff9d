package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// KeyEnter is the key name that submits the topic.
const KeyEnter = "Enter"

const (
	systemPrompt = "You are a wise philosopher who creates inspiring, thought-provoking quotes. " +
		`Return responses as JSON with "text" and "author" fields. ` +
		"The author should be a creative, fitting name (not a real person)."

	userPromptPrefix = "Generate an inspiring quote about: "
)

// quoteSchema constrains the model to exactly {text, author}.
func quoteSchema() *ports.ResponseSchema {
	return &ports.ResponseSchema{
		Name:   "Quote",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":   map[string]any{"type": "string"},
				"author": map[string]any{"type": "string"},
			},
			"required":             []string{"text", "author"},
			"additionalProperties": false,
		},
	}
}

// QuoteRequest builds the model request for topic.
func QuoteRequest(model, topic string) *ports.ModelRequest {
	return &ports.ModelRequest{
		Model: model,
		Messages: []ports.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptPrefix + topic},
		},
		Schema: quoteSchema(),
	}
}

// View is an immutable snapshot of one user's quote screen.
type View struct {
	Header Header `json:"header"`

	Topic       string `json:"topic"`
	CanGenerate bool   `json:"canGenerate"`
	Loading     bool   `json:"loading"`

	// Error is nil unless the last generation failed.
	Error *Failure `json:"error,omitempty"`

	// Current is hidden while loading.
	Current *domain.Quote `json:"current,omitempty"`

	// History is newest first.
	History         []domain.Quote    `json:"history"`
	SyncStatus      domain.SyncStatus `json:"syncStatus"`
	SyncLabel       string            `json:"syncLabel"`
	LastGeneratedAt *time.Time        `json:"lastGeneratedAt,omitempty"`
}

// Header is the account strip above the generator.
type Header struct {
	Email   string `json:"email"`
	Credits int    `json:"credits"`
	Plan    string `json:"plan"`
}

// HeaderFor builds the header from an account snapshot.
func HeaderFor(acct domain.Account) Header {
	return Header{
		Email:   acct.User.Email,
		Credits: acct.Usage.RemainingCredits,
		Plan:    acct.Subscription.DisplayPlan(),
	}
}

// GeneratorConfig holds QuoteGenerator settings.
type GeneratorConfig struct {
	Model    string
	Logger   *slog.Logger
	Executor *Executor
	Metrics  *Metrics
	Now      func() time.Time
}

// QuoteGenerator is one signed-in user's quote screen: the topic being
// typed, the quote on display, the in-flight flag, the last failure, and the
// history mirrored to platform storage.
type QuoteGenerator struct {
	runner  ports.ModelRunner
	token   string
	history *SyncedValue[domain.QuoteHistory]

	model   string
	logger  *slog.Logger
	exec    *Executor
	metrics *Metrics
	now     func() time.Time

	mu      sync.Mutex
	topic   string
	loading bool
	failure *Failure
	current *domain.Quote
}

// NewQuoteGenerator shows the newest history entry, if any, as the current
// quote until the first generation.
func NewQuoteGenerator(runner ports.ModelRunner, accessToken string, history *SyncedValue[domain.QuoteHistory], cfg GeneratorConfig) *QuoteGenerator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exec := cfg.Executor
	if exec == nil {
		exec = NewExecutor(logger)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &QuoteGenerator{
		runner:  runner,
		token:   accessToken,
		history: history,
		model:   cfg.Model,
		logger:  logger.With(slog.String("component", "app.QuoteGenerator")),
		exec:    exec,
		metrics: cfg.Metrics,
		now:     now,
	}
}

// SetTopic records what the user typed. Ignored while generating, the same
// way the input is disabled on screen.
func (g *QuoteGenerator) SetTopic(topic string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loading {
		return
	}

	g.topic = topic
}

// KeyPress dispatches a key from the topic input. Only Enter does anything,
// and only when Generate would be accepted.
func (g *QuoteGenerator) KeyPress(ctx context.Context, key string) error {
	if key != KeyEnter {
		return nil
	}

	err := g.Generate(ctx)
	if errors.Is(err, ErrGenerateRejected) {
		return nil
	}

	return err
}

// Generate asks the model for a quote on the current topic.
//
// It returns ErrGenerateRejected without side effects when the topic is
// blank or another generation is running. Otherwise exactly one model
// request is made; on success the quote is displayed and appended to the
// history, on failure the classified message is displayed and the error is
// returned. Loading is cleared either way. The model call is not cancelled
// with ctx: once issued it runs until the platform answers or the client
// gives up.
func (g *QuoteGenerator) Generate(ctx context.Context) error {
	g.mu.Lock()
	topic := strings.TrimSpace(g.topic)
	if topic == "" || g.loading {
		g.mu.Unlock()
		return ErrGenerateRejected
	}

	g.loading = true
	g.failure = nil
	g.mu.Unlock()

	quote, err := Execute(context.WithoutCancel(ctx), g.exec, g.operation(), topic)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.loading = false

	if err != nil {
		failure, outcome := classifyFailure(err)
		g.failure = &failure
		g.metrics.generation(outcome)
		g.logger.ErrorContext(ctx, "quote generation failed",
			slog.String("topic", topic),
			slog.String("outcome", outcome),
			slog.Any("error", err))

		return err
	}

	g.current = &quote
	g.metrics.generation(outcomeSuccess)

	return nil
}

func (g *QuoteGenerator) operation() Operation[string, []json.RawMessage, domain.Quote, domain.Quote] {
	return Operation[string, []json.RawMessage, domain.Quote, domain.Quote]{
		Name: "quote.generate",
		Validate: func(_ context.Context, topic string) error {
			if g.model == "" {
				return domain.NewValidationError("model", "is not configured")
			}
			if topic == "" {
				return domain.NewValidationError("topic", "must not be empty")
			}
			return nil
		},
		Perform: func(ctx context.Context, topic string) ([]json.RawMessage, error) {
			return g.runner.Run(ctx, g.token, QuoteRequest(g.model, topic))
		},
		Verify: func(_ context.Context, _ string, output []json.RawMessage) (domain.Quote, error) {
			return decodeQuote(output)
		},
		Archive: func(_ context.Context, _ string, quote domain.Quote) error {
			at := g.now()
			g.history.Update(func(h domain.QuoteHistory) domain.QuoteHistory {
				return h.Append(quote, at)
			})
			return nil
		},
		Respond: func(_ context.Context, _ string, quote domain.Quote) (domain.Quote, error) {
			return quote, nil
		},
	}
}

// decodeQuote takes the first structured output element.
func decodeQuote(output []json.RawMessage) (domain.Quote, error) {
	if len(output) == 0 {
		return domain.Quote{}, domain.NewValidationError("output", "model returned no output")
	}

	var quote domain.Quote
	if err := json.Unmarshal(output[0], &quote); err != nil {
		return domain.Quote{}, fmt.Errorf("decoding model output: %w", err)
	}

	if err := quote.Validate(); err != nil {
		return domain.Quote{}, err
	}

	return quote, nil
}

// View returns a snapshot. The header is left for the caller to fill.
func (g *QuoteGenerator) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	history, status := g.history.Get()

	view := View{
		Topic:           g.topic,
		CanGenerate:     !g.loading && strings.TrimSpace(g.topic) != "",
		Loading:         g.loading,
		History:         history.Reversed(),
		SyncStatus:      status,
		SyncLabel:       status.Label(),
		LastGeneratedAt: history.LastGeneratedAt,
	}

	if view.History == nil {
		view.History = []domain.Quote{}
	}

	if g.failure != nil {
		failure := *g.failure
		view.Error = &failure
	}

	current, ok := history.Latest()
	if g.current != nil {
		current, ok = *g.current, true
	}

	if ok && !g.loading {
		view.Current = &current
	}

	return view
}

// Loaded reports whether the history has been read from storage.
func (g *QuoteGenerator) Loaded() bool {
	return g.history.Loaded()
}

// Busy reports whether a generation is in flight.
func (g *QuoteGenerator) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.loading
}

// History returns a copy of the stored quotes, oldest first.
func (g *QuoteGenerator) History() []domain.Quote {
	history, _ := g.history.Get()

	return slices.Clone(history.Quotes)
}

// Close stops the history pusher after its pending write.
func (g *QuoteGenerator) Close() {
	g.history.Close()
}
