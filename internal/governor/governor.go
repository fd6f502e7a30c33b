// Package governor implements the performance governor: a rolling
// execution-time and failure-count tracker per hook with a
// threshold-based circuit breaker.
//
// A hook is auto-disabled after a single invocation slower than the
// disable threshold or after too many consecutive error outcomes. There
// is no automatic recovery: a flaky or slow check must not silently
// resume without an operator decision, so Reenable is the only path
// back.
package governor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gatekeeper/internal/clock"
	"github.com/mrz1836/gatekeeper/internal/constants"
	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
)

// Thresholds holds the externally configurable governance limits.
type Thresholds struct {
	// Warn marks an invocation as slow without changing state.
	Warn time.Duration

	// Disable auto-disables after a single invocation slower than this.
	Disable time.Duration

	// MaxConsecutiveFailures auto-disables after this many error
	// outcomes in a row.
	MaxConsecutiveFailures int
}

// DefaultThresholds returns the shipped governance defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Warn:                   constants.DefaultWarnThreshold,
		Disable:                constants.DefaultDisableThreshold,
		MaxConsecutiveFailures: constants.DefaultMaxConsecutiveFailures,
	}
}

// Event is emitted when the breaker trips. It is consumed by telemetry
// and logging, never retried automatically.
type Event struct {
	HookID              string
	State               domain.PerfState
	Reason              string
	ConsecutiveFailures int
	Duration            time.Duration
}

// Listener receives governance events. Listeners must be fast; they run
// on the recording goroutine.
type Listener func(Event)

// Store persists performance records across process invocations.
type Store interface {
	// Load reads all persisted records. A missing state file yields an
	// empty map, not an error.
	Load(ctx context.Context) (map[string]domain.PerformanceRecord, error)

	// Save atomically replaces the persisted records.
	Save(ctx context.Context, records map[string]domain.PerformanceRecord) error
}

// record pairs the mutable performance data with its own mutex so
// unrelated hooks never serialize on a shared lock. The disabled flag is
// mirrored into an atomic for lock-free eligibility reads.
type record struct {
	mu       sync.Mutex
	data     domain.PerformanceRecord
	disabled atomic.Bool
}

// Governor observes completed invocations and owns all PerformanceRecord
// mutation. Safe for concurrent use across hooks of the same dispatch
// and across concurrent dispatches.
type Governor struct {
	mu      sync.RWMutex
	records map[string]*record

	thresholds Thresholds
	window     int
	clk        clock.Clock
	store      Store
	listener   Listener
	logger     zerolog.Logger
}

// Option configures a Governor.
type Option func(*Governor)

// WithThresholds overrides the default governance thresholds.
func WithThresholds(t Thresholds) Option {
	return func(g *Governor) {
		g.thresholds = t
	}
}

// WithClock sets the clock used for disable timestamps.
func WithClock(c clock.Clock) Option {
	return func(g *Governor) {
		g.clk = c
	}
}

// WithStore sets the persistence backend. If not set, records live only
// for the process lifetime.
func WithStore(s Store) Option {
	return func(g *Governor) {
		g.store = s
	}
}

// WithListener sets the governance event listener.
func WithListener(l Listener) Option {
	return func(g *Governor) {
		g.listener = l
	}
}

// WithLogger sets the logger. If not set, a no-op logger is used.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Governor) {
		g.logger = logger
	}
}

// WithWindow overrides the rolling duration window capacity.
func WithWindow(n int) Option {
	return func(g *Governor) {
		if n > 0 {
			g.window = n
		}
	}
}

// New creates a Governor, seeding records from the store when one is
// configured. A corrupted or unreadable state file is logged and treated
// as empty rather than blocking work.
func New(ctx context.Context, opts ...Option) *Governor {
	g := &Governor{
		records:    make(map[string]*record),
		thresholds: DefaultThresholds(),
		window:     constants.DefaultPerfWindow,
		clk:        clock.RealClock{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.store != nil {
		persisted, err := g.store.Load(ctx)
		if err != nil {
			g.logger.Warn().Err(err).Msg("failed to load performance state, starting fresh")
		}
		for id, data := range persisted {
			r := &record{data: data}
			r.disabled.Store(data.State == domain.PerfStateDisabled)
			g.records[id] = r
		}
	}
	return g
}

// Enabled reports whether the hook is currently eligible to run. The
// read is lock-free; a one-invocation lag in observing a disable is
// acceptable and bounded by the next Record call.
func (g *Governor) Enabled(hookID string) bool {
	g.mu.RLock()
	r, ok := g.records[hookID]
	g.mu.RUnlock()
	if !ok {
		// Never-seen hooks are eligible by definition.
		return true
	}
	return !r.disabled.Load()
}

// Record observes one completed invocation and applies the warning and
// auto-disable rules. It returns non-blocking annotations (slow
// warnings) for the caller to attach to the HookResult.
//
// Cached outcomes are observed but never count toward the rolling window
// or the failure streak: a cache hit says nothing about the hook's
// current cost.
func (g *Governor) Record(ctx context.Context, hookID string, d time.Duration, outcome domain.Outcome) []string {
	r := g.getOrCreate(hookID)

	if outcome == domain.OutcomeCached {
		g.logger.Debug().Str("hook", hookID).Msg("cache hit observed")
		return nil
	}

	var annotations []string
	var tripped *Event

	r.mu.Lock()
	r.data.Durations = append(r.data.Durations, d)
	if len(r.data.Durations) > g.window {
		r.data.Durations = r.data.Durations[len(r.data.Durations)-g.window:]
	}

	if outcome == domain.OutcomeError {
		r.data.ConsecutiveFailures++
	} else {
		r.data.ConsecutiveFailures = 0
	}

	if r.data.State != domain.PerfStateDisabled {
		switch {
		case d > g.thresholds.Disable:
			reason := fmt.Sprintf("invocation took %v, over disable threshold %v", d, g.thresholds.Disable)
			tripped = g.disableLocked(r, hookID, reason, d)
		case r.data.ConsecutiveFailures >= g.thresholds.MaxConsecutiveFailures:
			reason := fmt.Sprintf("%d consecutive failures (max %d)", r.data.ConsecutiveFailures, g.thresholds.MaxConsecutiveFailures)
			tripped = g.disableLocked(r, hookID, reason, d)
		case d > g.thresholds.Warn:
			annotations = append(annotations, fmt.Sprintf("slow: took %v, warn threshold %v", d, g.thresholds.Warn))
		}
	}
	r.mu.Unlock()

	if tripped != nil {
		g.logger.Warn().
			Str("hook", hookID).
			Str("reason", tripped.Reason).
			Int("consecutive_failures", tripped.ConsecutiveFailures).
			Msg("hook auto-disabled")
		if g.listener != nil {
			g.listener(*tripped)
		}
	}

	g.persist(ctx)
	return annotations
}

// disableLocked trips the breaker. Caller holds r.mu.
func (g *Governor) disableLocked(r *record, hookID, reason string, d time.Duration) *Event {
	r.data.State = domain.PerfStateDisabled
	r.data.DisabledAt = g.clk.Now().UTC()
	r.data.DisabledReason = reason
	r.disabled.Store(true)

	return &Event{
		HookID:              hookID,
		State:               domain.PerfStateDisabled,
		Reason:              reason,
		ConsecutiveFailures: r.data.ConsecutiveFailures,
		Duration:            d,
	}
}

// Reenable is the manual operation that resets a disabled hook. It is
// the only transition back to enabled. The failure streak and the
// duration ring are both cleared; a stale slow sample must not color
// the hook's stats after an operator vouched for it. Returns
// ErrUnknownHook when the governor has never seen the hook.
func (g *Governor) Reenable(ctx context.Context, hookID string) error {
	g.mu.RLock()
	r, ok := g.records[hookID]
	g.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownHook, hookID)
	}

	r.mu.Lock()
	r.data.State = domain.PerfStateEnabled
	r.data.ConsecutiveFailures = 0
	r.data.Durations = nil
	r.data.DisabledAt = time.Time{}
	r.data.DisabledReason = ""
	r.disabled.Store(false)
	r.mu.Unlock()

	g.logger.Info().Str("hook", hookID).Msg("hook re-enabled")
	g.persist(ctx)
	return nil
}

// Snapshot returns a copy of every record, sorted by hook id.
func (g *Governor) Snapshot() []domain.PerformanceRecord {
	g.mu.RLock()
	out := make([]domain.PerformanceRecord, 0, len(g.records))
	for _, r := range g.records {
		r.mu.Lock()
		data := r.data
		data.Durations = append([]time.Duration(nil), r.data.Durations...)
		r.mu.Unlock()
		out = append(out, data)
	}
	g.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].HookID < out[j].HookID })
	return out
}

// Lookup returns the record for one hook.
func (g *Governor) Lookup(hookID string) (domain.PerformanceRecord, bool) {
	g.mu.RLock()
	r, ok := g.records[hookID]
	g.mu.RUnlock()
	if !ok {
		return domain.PerformanceRecord{}, false
	}

	r.mu.Lock()
	data := r.data
	data.Durations = append([]time.Duration(nil), r.data.Durations...)
	r.mu.Unlock()
	return data, true
}

// getOrCreate returns the record for hookID, creating it on first use.
func (g *Governor) getOrCreate(hookID string) *record {
	g.mu.RLock()
	r, ok := g.records[hookID]
	g.mu.RUnlock()
	if ok {
		return r
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok = g.records[hookID]; ok {
		return r
	}
	r = &record{data: domain.PerformanceRecord{
		HookID: hookID,
		State:  domain.PerfStateEnabled,
	}}
	g.records[hookID] = r
	return r
}

// persist writes a snapshot to the store, best-effort. Persistence
// failures are logged and never block the dispatch.
func (g *Governor) persist(ctx context.Context) {
	if g.store == nil {
		return
	}

	g.mu.RLock()
	snapshot := make(map[string]domain.PerformanceRecord, len(g.records))
	for id, r := range g.records {
		r.mu.Lock()
		data := r.data
		data.Durations = append([]time.Duration(nil), r.data.Durations...)
		r.mu.Unlock()
		snapshot[id] = data
	}
	g.mu.RUnlock()

	if err := g.store.Save(ctx, snapshot); err != nil {
		g.logger.Warn().Err(err).Msg("failed to persist performance state")
	}
}
