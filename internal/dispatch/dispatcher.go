// Package dispatch fans one event out to every applicable hook, runs
// them concurrently under the profile's time budget, and folds the
// individual results into a single report.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mrz1836/gatekeeper/internal/clock"
	"github.com/mrz1836/gatekeeper/internal/constants"
	"github.com/mrz1836/gatekeeper/internal/ctxutil"
	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/engine"
	"github.com/mrz1836/gatekeeper/internal/profile"
	"github.com/mrz1836/gatekeeper/internal/registry"
	"github.com/mrz1836/gatekeeper/internal/report"
)

// Dispatcher orchestrates a full dispatch cycle: profile resolution,
// concurrent hook execution, and aggregation. A Dispatcher is safe for
// concurrent use.
type Dispatcher struct {
	profiles      *profile.Manager
	registry      *registry.Registry
	engine        *engine.Engine
	clk           clock.Clock
	logger        zerolog.Logger
	maxConcurrent int64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the clock used for budget accounting.
func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) { d.clk = c }
}

// WithLogger sets the dispatcher's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMaxConcurrent caps the number of hooks running at once.
// Values below one fall back to the default.
func WithMaxConcurrent(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxConcurrent = int64(n)
		}
	}
}

// New creates a Dispatcher over the given profile manager, registry and
// execution engine.
func New(profiles *profile.Manager, reg *registry.Registry, eng *engine.Engine, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		profiles:      profiles,
		registry:      reg,
		engine:        eng,
		clk:           clock.RealClock{},
		logger:        zerolog.Nop(),
		maxConcurrent: constants.DefaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs every hook applicable to the event under the named
// profile and returns the aggregated report.
//
// All selected hooks start concurrently, bounded by the concurrency
// cap; each one gets the full profile budget as its deadline. If the
// whole dispatch is still running past the budget plus a small grace
// period, Dispatch stops waiting and records the outstanding hooks as
// timed out. The returned report lists results in registration order
// regardless of completion order.
//
// force re-includes governance-disabled hooks, used for manual
// re-testing after a disable.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event, profileName string, force bool) (domain.Report, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.Report{}, err
	}

	dispatchID := uuid.New().String()
	started := d.clk.Now()

	logger := d.logger.With().
		Str("dispatch_id", dispatchID).
		Str("event", event.Type).
		Str("profile", profileName).
		Logger()

	defs, budget := d.profiles.Resolve(profileName, event, force)
	if len(defs) == 0 {
		logger.Info().Msg("no hooks applicable, skipping dispatch")
		rep := report.Skipped("no hooks applicable to event")
		d.stamp(&rep, dispatchID, event, profileName, started)
		return rep, nil
	}

	logger.Info().
		Int("hooks", len(defs)).
		Dur("budget", budget).
		Msg("dispatching event")

	deadline := started.Add(budget)
	results := d.run(ctx, defs, event, deadline, budget, logger)

	rep := report.Aggregate(results, defs)
	d.stamp(&rep, dispatchID, event, profileName, started)

	logger.Info().
		Str("verdict", string(rep.Verdict)).
		Dur("duration", rep.Duration).
		Msg("dispatch complete")
	return rep, nil
}

// run executes the hooks concurrently and returns one result per
// definition, index-aligned with defs.
func (d *Dispatcher) run(ctx context.Context, defs []domain.HookDefinition, event domain.Event, deadline time.Time, budget time.Duration, logger zerolog.Logger) []domain.HookResult {
	col := newCollector(len(defs))

	sem := semaphore.NewWeighted(d.maxConcurrent)
	g, runCtx := errgroup.WithContext(ctx)

	for i, def := range defs {
		ec := domain.ExecutionContext{
			Event:    event,
			Config:   def.Config,
			Deadline: deadline,
		}
		handler := d.registry.Handler(def.ID)

		g.Go(func() error {
			if err := sem.Acquire(runCtx, 1); err != nil {
				col.set(i, timeoutResult(def.ID))
				return nil //nolint:nilerr // recorded in the result, not fatal
			}
			defer sem.Release(1)

			col.set(i, d.engine.Invoke(runCtx, def, handler, ec))
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	ceiling := time.NewTimer(budget + constants.BudgetGracePeriod)
	defer ceiling.Stop()

	select {
	case <-done:
	case <-ceiling.C:
		logger.Warn().Dur("budget", budget).Msg("dispatch exceeded budget, abandoning outstanding hooks")
	}

	// Hooks still running past the ceiling never wrote their slot; seal
	// fills them in as timeouts and rejects any late writes.
	return col.seal(defs)
}

// collector gathers results by index. Once sealed it ignores late
// writes from hooks abandoned past the budget ceiling.
type collector struct {
	mu      sync.Mutex
	results []domain.HookResult
	filled  []bool
	sealed  bool
}

func newCollector(n int) *collector {
	return &collector{
		results: make([]domain.HookResult, n),
		filled:  make([]bool, n),
	}
}

func (c *collector) set(i int, r domain.HookResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealed {
		return
	}
	c.results[i] = r
	c.filled[i] = true
}

func (c *collector) seal(defs []domain.HookDefinition) []domain.HookResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed = true
	for i := range c.results {
		if !c.filled[i] {
			c.results[i] = timeoutResult(defs[i].ID)
		}
	}
	return c.results
}

func (d *Dispatcher) stamp(rep *domain.Report, dispatchID string, event domain.Event, profileName string, started time.Time) {
	rep.DispatchID = dispatchID
	rep.Event = event
	rep.Profile = profileName
	rep.StartedAt = started
	rep.Duration = d.clk.Now().Sub(started)
}

func timeoutResult(hookID string) domain.HookResult {
	return domain.HookResult{
		HookID:  hookID,
		Status:  domain.StatusError,
		Message: "timeout: dispatch budget exhausted",
	}
}
