package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateChecker is returned when attempting to register a health checker
// with a name that is already registered.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components that can report their health.
// The platform client and the redis session store register themselves with
// the HealthRegistry at startup; /-/ready fails while either is unhealthy.
type HealthChecker interface {
	// Name returns a unique identifier for this health check.
	// Used in health check responses to identify which component failed.
	Name() string

	// Check performs the health check and returns an error if unhealthy.
	// Implementations should respect context cancellation and deadlines.
	// A nil return indicates the component is healthy.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates health checks from multiple components.
// Components register themselves at startup, and the registry
// runs all checks when queried.
type HealthRegistry interface {
	// Register adds a health checker to the registry.
	// Returns an error if a checker with the same name is already registered.
	Register(checker HealthChecker) error

	// CheckAll runs every registered check concurrently and aggregates the
	// results. One failing check makes the whole result unhealthy.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	// HealthStatusHealthy indicates all checks passed.
	HealthStatusHealthy HealthStatus = "healthy"

	// HealthStatusUnhealthy indicates critical checks failed.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult contains the aggregated health check results.
type HealthResult struct {
	// Status is the overall health status.
	Status HealthStatus `json:"status"`

	// Checks contains individual check results keyed by checker name.
	Checks map[string]*CheckResult `json:"checks"`

	// Timestamp is when the health check was performed.
	Timestamp time.Time `json:"timestamp"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	// Status is the health status of this component.
	Status HealthStatus `json:"status"`

	// Message provides additional context, especially on failure.
	Message string `json:"message,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration"`
}

// DefaultCheckTimeout bounds a single check when the registry is built
// without an explicit timeout.
const DefaultCheckTimeout = 2 * time.Second

// DefaultHealthRegistry is a thread-safe implementation of HealthRegistry.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
	timeout  time.Duration
	now      func() time.Time
}

// RegistryOption configures a DefaultHealthRegistry.
type RegistryOption func(*DefaultHealthRegistry)

// WithCheckTimeout bounds each check. A check still running at the deadline
// is reported unhealthy with the context error.
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *DefaultHealthRegistry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry(opts ...RegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{
		checkers: make([]HealthChecker, 0),
		timeout:  DefaultCheckTimeout,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a health checker to the registry.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// Names lists registered checkers in registration order.
func (r *DefaultHealthRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.checkers))
	for i, c := range r.checkers {
		names[i] = c.Name()
	}

	return names
}

// CheckAll runs all registered health checks concurrently.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	// Failures are recorded, never returned, so one bad check cannot cancel
	// its siblings.
	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			results[i] = r.run(ctx, c)
			return nil
		})
	}

	_ = g.Wait()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: r.now(),
	}

	for i, c := range checkers {
		result.Checks[c.Name()] = results[i]
		if results[i].Status == HealthStatusUnhealthy {
			result.Status = HealthStatusUnhealthy
		}
	}

	return result
}

func (r *DefaultHealthRegistry) run(ctx context.Context, c HealthChecker) *CheckResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.now()
	err := c.Check(ctx)

	res := &CheckResult{Status: HealthStatusHealthy, Duration: r.now().Sub(start)}
	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
