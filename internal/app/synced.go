package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// SyncedValue is a locally held value mirrored to one key of the user's
// platform storage. Reads never block on the network. Writes update the
// local value immediately and are pushed by a background goroutine; when
// several writes pile up only the newest is pushed.
//
// Nothing is pushed until a Load has succeeded, so a value that could not be
// read never overwrites the stored one. Writes made before then are kept and
// replayed on top of the stored value once it loads.
type SyncedValue[T any] struct {
	store    ports.KeyValueStore
	token    string
	key      string
	fallback T
	logger   *slog.Logger
	metrics  *Metrics

	mu      sync.Mutex
	value   T
	status  domain.SyncStatus
	version uint64
	closed  bool
	loaded  bool
	pending []func(T) T

	signal    chan struct{}
	done      chan struct{}
	exited    chan struct{}
	pushCtx   context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// SyncedValueConfig holds optional collaborators.
type SyncedValueConfig struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

// NewSyncedValue starts the pusher for key. The value reads as fallback with
// status local until Load completes.
func NewSyncedValue[T any](store ports.KeyValueStore, accessToken, key string, fallback T, cfg SyncedValueConfig) *SyncedValue[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pushCtx, cancel := context.WithCancel(context.Background())

	v := &SyncedValue[T]{
		store:    store,
		token:    accessToken,
		key:      key,
		fallback: fallback,
		logger:   logger.With(slog.String("component", "app.SyncedValue"), slog.String("key", key)),
		metrics:  cfg.Metrics,
		value:    fallback,
		status:   domain.SyncLocal,
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
		pushCtx:  pushCtx,
		cancel:   cancel,
	}

	go v.pushLoop()

	return v
}

// Load fetches the stored value. A missing key yields the fallback with
// status synced; any other failure keeps the local value with status error
// and leaves the value unloaded, so Load may be called again. Writes made
// before a successful Load are replayed on the stored value and pushed.
func (v *SyncedValue[T]) Load(ctx context.Context) {
	if v.Loaded() {
		return
	}

	remote, err := v.fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loaded {
		return
	}

	if err != nil {
		v.status = domain.SyncError
		return
	}

	v.loaded = true

	if len(v.pending) == 0 {
		v.value = remote
		v.status = domain.SyncSynced
		return
	}

	for _, fn := range v.pending {
		remote = fn(remote)
	}

	v.pending = nil
	v.value = remote
	v.version++
	v.schedule()
}

// Loaded reports whether a Load has succeeded.
func (v *SyncedValue[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.loaded
}

func (v *SyncedValue[T]) fetch(ctx context.Context) (T, error) {
	raw, err := v.store.Get(ctx, v.token, v.key)
	if err != nil {
		if domain.IsNotFound(err) {
			return v.fallback, nil
		}

		v.logger.ErrorContext(ctx, "loading synced value failed", slog.Any("error", err))

		return v.fallback, err
	}

	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		v.logger.ErrorContext(ctx, "decoding synced value failed", slog.Any("error", err))

		return v.fallback, fmt.Errorf("decoding %s: %w", v.key, err)
	}

	return decoded, nil
}

// Get returns the local value and its sync status.
func (v *SyncedValue[T]) Get() (T, domain.SyncStatus) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.value, v.status
}

// Set replaces the local value and schedules a push.
func (v *SyncedValue[T]) Set(value T) {
	v.Update(func(T) T { return value })
}

// Update applies fn to the local value atomically, schedules a push of the
// result and returns it. Before the first successful Load, fn is also kept
// for replay and nothing is pushed.
func (v *SyncedValue[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.value = fn(v.value)
	v.version++

	if !v.loaded {
		v.pending = append(v.pending, fn)
		return v.value
	}

	v.schedule()

	return v.value
}

// schedule marks the value syncing and wakes the pusher. Caller holds mu.
func (v *SyncedValue[T]) schedule() {
	if v.closed {
		v.status = domain.SyncLocal
		return
	}

	v.status = domain.SyncSyncing

	// Signalled under mu so Close cannot slip between the status change and
	// the signal. A full buffer means a push is pending and will read the
	// newest value.
	select {
	case v.signal <- struct{}{}:
	default:
	}
}

func (v *SyncedValue[T]) pushLoop() {
	defer close(v.exited)

	for {
		select {
		case <-v.signal:
			v.push()
		case <-v.done:
			select {
			case <-v.signal:
				v.push()
			default:
			}

			return
		}
	}
}

func (v *SyncedValue[T]) push() {
	v.mu.Lock()
	value, version := v.value, v.version
	v.mu.Unlock()

	ctx, span := telemetry.Tracer().Start(v.pushCtx, "storage.push",
		trace.WithAttributes(attribute.String("storage.key", v.key)))
	defer span.End()

	err := v.write(ctx, value)

	status := domain.SyncSynced
	if err != nil {
		status = domain.SyncError
		span.RecordError(err)
		span.SetStatus(codes.Error, "push failed")
		v.logger.ErrorContext(ctx, "pushing synced value failed", slog.Any("error", err))
		v.metrics.sync("error")
	} else {
		v.metrics.sync("synced")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// A newer Set owns the status now.
	if v.version == version {
		v.status = status
	}
}

func (v *SyncedValue[T]) write(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", v.key, err)
	}

	return v.store.Set(ctx, v.token, v.key, data)
}

// Close waits for a pending push to finish, then stops the pusher. Later
// writes stay local.
func (v *SyncedValue[T]) Close() {
	v.closeOnce.Do(func() {
		v.mu.Lock()
		v.closed = true
		v.mu.Unlock()

		close(v.done)
		<-v.exited
		v.cancel()
	})
}
