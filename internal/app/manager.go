package app

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// Messages stored on failed sessions and shown on the sign-in page.
const (
	FailureStateMismatch = "Sign-in could not be verified. Please try again."
	FailureRejected      = "Sign-in failed. Please try again."
)

// closeWorkers bounds how many workspaces drain their pending history push
// at once during shutdown.
const closeWorkers = 4

// DefaultSweepInterval is how often idle workspaces are looked for.
const DefaultSweepInterval = time.Minute

// SessionManagerConfig holds the manager's collaborators.
type SessionManagerConfig struct {
	Platform ports.Platform
	Store    ports.SessionStore
	Model    string
	Logger   *slog.Logger
	Metrics  *Metrics
	Now      func() time.Time
	NewID    func() string

	// IdleTimeout evicts a workspace nobody has used for this long. Zero
	// keeps workspaces until sign-out or shutdown.
	IdleTimeout time.Duration

	// SweepInterval defaults to DefaultSweepInterval.
	SweepInterval time.Duration
}

type workspace struct {
	generator *QuoteGenerator
	lastUsed  time.Time
}

// SessionManager owns browser sessions and the per-session QuoteGenerator.
// Platform access for a session goes through the Capabilities of its Ready
// state; nothing else in the process holds an access token.
type SessionManager struct {
	platform ports.Platform
	store    ports.SessionStore
	model    string
	logger   *slog.Logger
	metrics  *Metrics
	exec     *Executor
	now      func() time.Time
	newID    func() string

	idle  time.Duration
	stop  chan struct{}
	swept chan struct{}

	mu         sync.Mutex
	workspaces map[string]*workspace
	closed     bool
	building   singleflight.Group
}

// NewSessionManager panics if Platform or Store is nil. With an IdleTimeout
// it starts a sweeper that Close stops.
func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	if cfg.Platform == nil {
		panic("SessionManager: Platform is required")
	}

	if cfg.Store == nil {
		panic("SessionManager: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	m := &SessionManager{
		platform:   cfg.Platform,
		store:      cfg.Store,
		model:      cfg.Model,
		logger:     logger.With(slog.String("component", "app.SessionManager")),
		metrics:    cfg.Metrics,
		exec:       NewExecutor(logger),
		now:        now,
		newID:      newID,
		idle:       cfg.IdleTimeout,
		stop:       make(chan struct{}),
		swept:      make(chan struct{}),
		workspaces: make(map[string]*workspace),
	}

	if m.idle <= 0 {
		close(m.swept)
		return m
	}

	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	go m.sweepLoop(interval)

	return m
}

func (m *SessionManager) sweepLoop(interval time.Duration) {
	defer close(m.swept)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.EvictIdle()
		case <-m.stop:
			return
		}
	}
}

// EvictIdle closes workspaces unused for longer than the idle timeout and
// returns how many it closed. A workspace with a generation in flight is kept.
func (m *SessionManager) EvictIdle() int {
	if m.idle <= 0 {
		return 0
	}

	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	var idle []*QuoteGenerator
	for id, ws := range m.workspaces {
		if ws.lastUsed.Before(cutoff) && !ws.generator.Busy() {
			idle = append(idle, ws.generator)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, g := range idle {
		g.Close()
	}

	if len(idle) > 0 {
		m.logger.Debug("evicted idle workspaces", slog.Int("count", len(idle)))
	}

	return len(idle)
}

// BeginSignIn creates a pending session and returns its ID together with
// the platform URL the browser should be sent to.
func (m *SessionManager) BeginSignIn(ctx context.Context, redirectURI string) (sessionID, authorizeURL string, err error) {
	rec := &domain.SessionRecord{
		ID:          m.newID(),
		Phase:       domain.SessionPending,
		SignInState: m.newID(),
		CreatedAt:   m.now(),
	}

	if err := m.store.Save(ctx, rec); err != nil {
		return "", "", err
	}

	return rec.ID, m.platform.SignInURL(rec.SignInState, redirectURI), nil
}

// CompleteSignIn handles the platform callback. A state that does not match
// the pending session, or a code the platform rejects, moves the session to
// Failed and returns an UnauthenticatedError.
func (m *SessionManager) CompleteSignIn(ctx context.Context, sessionID, state, code string) error {
	rec, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NewUnauthenticatedError("no pending sign-in")
		}
		return err
	}

	if rec.Phase != domain.SessionPending || state == "" ||
		subtle.ConstantTimeCompare([]byte(state), []byte(rec.SignInState)) != 1 {
		return m.fail(ctx, rec, FailureStateMismatch)
	}

	creds, err := m.platform.CompleteSignIn(ctx, code)
	if err != nil {
		m.logger.WarnContext(ctx, "platform rejected sign-in", slog.Any("error", err))
		return m.fail(ctx, rec, FailureRejected)
	}

	rec.Phase = domain.SessionReady
	rec.SignInState = ""
	rec.Credentials = creds

	if err := m.store.Save(ctx, rec); err != nil {
		return err
	}

	logging.FromContext(ctx).InfoContext(ctx, "signed in", slog.String("user_id", creds.User.ID))

	return nil
}

func (m *SessionManager) fail(ctx context.Context, rec *domain.SessionRecord, reason string) error {
	rec.Phase = domain.SessionFailed
	rec.SignInState = ""
	rec.Failure = reason

	if err := m.store.Save(ctx, rec); err != nil {
		m.logger.ErrorContext(ctx, "saving failed session", slog.Any("error", err))
	}

	return domain.NewUnauthenticatedError(reason)
}

// Resolve reports the state of a browser session. Expired credentials are
// discarded and read as Uninitialized. A store outage reads as Failed.
func (m *SessionManager) Resolve(ctx context.Context, sessionID string) SessionState {
	if sessionID == "" {
		return Uninitialized{}
	}

	rec, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if domain.IsNotFound(err) {
			m.dropWorkspace(sessionID)
			return Uninitialized{}
		}

		m.logger.ErrorContext(ctx, "resolving session", slog.Any("error", err))

		return Failed{Err: err}
	}

	switch rec.Phase {
	case domain.SessionReady:
		if rec.Credentials == nil || rec.Credentials.Expired(m.now()) {
			m.discard(ctx, sessionID)
			return Uninitialized{}
		}

		return Ready{Capabilities: &Capabilities{
			sessionID: rec.ID,
			creds:     *rec.Credentials,
			platform:  m.platform,
		}}
	case domain.SessionFailed:
		return Failed{Err: domain.NewUnauthenticatedError(rec.Failure)}
	default:
		return Uninitialized{}
	}
}

// SignOut revokes the platform token (best effort), forgets the session and
// stops its generator. Unknown sessions are not an error.
func (m *SessionManager) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	rec, err := m.store.Get(ctx, sessionID)
	if err == nil && rec.Credentials != nil {
		if err := m.platform.SignOut(ctx, rec.Credentials.AccessToken); err != nil {
			m.logger.WarnContext(ctx, "platform sign-out failed", slog.Any("error", err))
		}
	}

	m.dropWorkspace(sessionID)

	if err := m.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	return nil
}

func (m *SessionManager) discard(ctx context.Context, sessionID string) {
	m.dropWorkspace(sessionID)

	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.WarnContext(ctx, "deleting expired session", slog.Any("error", err))
	}
}

func (m *SessionManager) dropWorkspace(sessionID string) {
	m.mu.Lock()
	ws, ok := m.workspaces[sessionID]
	delete(m.workspaces, sessionID)
	m.mu.Unlock()

	if ok {
		ws.generator.Close()
	}
}

// Workspace returns the session's QuoteGenerator, building it on first use.
// Building loads the quote history from platform storage; concurrent first
// requests for one session share a single load. A history that failed to
// load is loaded again on the next call. Loads are not cancelled with ctx,
// so one abandoned request cannot spoil the workspace for the next.
func (m *SessionManager) Workspace(ctx context.Context, caps *Capabilities) (*QuoteGenerator, error) {
	ctx = context.WithoutCancel(ctx)

	g, err := m.lookup(caps.sessionID)
	if err != nil {
		return nil, err
	}

	if g != nil {
		if !g.Loaded() {
			_, _, _ = m.building.Do("load:"+caps.sessionID, func() (any, error) {
				g.history.Load(ctx)
				return nil, nil
			})
		}

		return g, nil
	}

	v, err, _ := m.building.Do(caps.sessionID, func() (any, error) {
		if g, err := m.lookup(caps.sessionID); g != nil || err != nil {
			return g, err
		}

		history := NewSyncedValue(m.platform, caps.creds.AccessToken, domain.HistoryKey, domain.QuoteHistory{},
			SyncedValueConfig{Logger: m.logger, Metrics: m.metrics})
		history.Load(ctx)

		g := NewQuoteGenerator(m.platform, caps.creds.AccessToken, history, GeneratorConfig{
			Model:    m.model,
			Logger:   m.logger,
			Executor: m.exec,
			Metrics:  m.metrics,
			Now:      m.now,
		})

		m.mu.Lock()
		defer m.mu.Unlock()

		if m.closed {
			g.Close()
			return nil, domain.NewUnavailableError("session manager", "shutting down")
		}

		m.workspaces[caps.sessionID] = &workspace{generator: g, lastUsed: m.now()}

		return g, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*QuoteGenerator), nil
}

// lookup returns the live generator for sessionID, if any, and marks it used.
func (m *SessionManager) lookup(sessionID string) (*QuoteGenerator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, domain.NewUnavailableError("session manager", "shutting down")
	}

	ws, ok := m.workspaces[sessionID]
	if !ok {
		return nil, nil
	}

	ws.lastUsed = m.now()

	return ws.generator, nil
}

// Account fetches usage and subscription in parallel. Either failing degrades
// to zero credits or the default plan rather than failing the page.
func (m *SessionManager) Account(ctx context.Context, caps *Capabilities) domain.Account {
	usage, sub := Settle2(ctx, caps.Usage, caps.Subscription)

	acct := domain.Account{User: caps.User()}

	if usage.Err != nil {
		m.logger.WarnContext(ctx, "reading usage failed", slog.Any("error", usage.Err))
	} else if usage.Value != nil {
		acct.Usage = *usage.Value
	}

	if sub.Err != nil {
		m.logger.WarnContext(ctx, "reading subscription failed", slog.Any("error", sub.Err))
	} else if sub.Value != nil {
		acct.Subscription = *sub.Value
	}

	return acct
}

// Snapshot is the full screen: the generator view plus the account header.
func (m *SessionManager) Snapshot(ctx context.Context, caps *Capabilities) (View, error) {
	g, err := m.Workspace(ctx, caps)
	if err != nil {
		return View{}, err
	}

	view := g.View()
	view.Header = HeaderFor(m.Account(ctx, caps))

	return view, nil
}

// ManagePlanURL returns where to send the user to upgrade or manage billing.
func (m *SessionManager) ManagePlanURL(ctx context.Context, caps *Capabilities, returnURL string) (string, error) {
	return caps.ManageURL(ctx, returnURL)
}

// Active reports how many generators are live.
func (m *SessionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.workspaces)
}

// Close stops the idle sweeper and every generator after its pending
// history push. New workspaces are refused afterwards.
func (m *SessionManager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}

	m.closed = true
	close(m.stop)

	generators := make([]*QuoteGenerator, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		generators = append(generators, ws.generator)
	}

	clear(m.workspaces)
	m.mu.Unlock()

	<-m.swept

	return FanOut(ctx, closeWorkers, generators, func(_ context.Context, g *QuoteGenerator) error {
		g.Close()
		return nil
	})
}
