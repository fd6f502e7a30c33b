// Package engine implements the execution engine: it invokes one hook
// with a bounded context, enforcing the deadline, recovering panics,
// and updating the cache layer and performance governor.
//
// This isolation boundary is the framework's core safety property:
// handler code is untrusted with respect to timing and panics, trusted
// with respect to side effects.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gatekeeper/internal/cache"
	"github.com/mrz1836/gatekeeper/internal/clock"
	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
	"github.com/mrz1836/gatekeeper/internal/governor"
)

// Engine invokes hooks under a deadline with cache and governance
// side effects. Safe for concurrent use.
type Engine struct {
	cache    *cache.Cache
	governor *governor.Governor
	clk      clock.Clock
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for timing invocations.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clk = c
	}
}

// WithLogger sets the logger. If not set, a no-op logger is used.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine bound to the given cache and governor.
func New(c *cache.Cache, g *governor.Governor, opts ...Option) *Engine {
	e := &Engine{
		cache:    c,
		governor: g,
		clk:      clock.RealClock{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// handlerReturn carries the handler's outcome across the goroutine
// boundary.
type handlerReturn struct {
	result domain.HookResult
	err    error
}

// Invoke runs one hook under the execution context's deadline.
//
// Cache hits return immediately and are recorded in the governor with
// duration zero and outcome cached, which never counts toward failure
// streaks. Handler errors, panics, and deadline overruns all surface as
// status error without aborting sibling hooks. Timeouts record the full
// elapsed time so slow hooks are penalized, not rewarded, by timing
// out.
func (e *Engine) Invoke(ctx context.Context, def domain.HookDefinition, handler domain.Handler, ec domain.ExecutionContext) domain.HookResult {
	log := e.logger.With().Str("hook", def.ID).Logger()

	if def.CacheTTL > 0 {
		if cached, hit := e.cache.Get(def.ID, ec); hit {
			cached.HookID = def.ID
			cached.Cached = true
			cached.Duration = 0
			e.governor.Record(ctx, def.ID, 0, domain.OutcomeCached)
			log.Debug().Msg("served from cache")
			return cached
		}
	}

	if handler == nil {
		return e.finish(ctx, def, ec, domain.SkippedResult(def.ID, "no handler registered"), 0)
	}

	runCtx, cancel := context.WithDeadline(ctx, ec.Deadline)
	defer cancel()

	start := e.clk.Now()
	// Buffered so an orphaned handler that eventually returns never
	// leaks its goroutine on the send.
	done := make(chan handlerReturn, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- handlerReturn{err: fmt.Errorf("%w: %v", errors.ErrHookPanic, r)}
			}
		}()
		res, err := handler.Handle(runCtx, ec)
		done <- handlerReturn{result: res, err: err}
	}()

	var result domain.HookResult
	select {
	case ret := <-done:
		elapsed := e.clk.Now().Sub(start)
		if ret.err != nil {
			result = domain.HookResult{
				Status:  domain.StatusError,
				Message: ret.err.Error(),
			}
			log.Debug().Err(ret.err).Msg("handler returned error")
		} else {
			result = ret.result
		}
		return e.finish(ctx, def, ec, result, elapsed)

	case <-runCtx.Done():
		// The handler ignored cancellation or ran out of time. Return an
		// error result now; any eventual completion is discarded via the
		// buffered channel. A caller abort is reported as canceled, not
		// as a timeout the hook would be blamed for.
		elapsed := e.clk.Now().Sub(start)
		msg := errors.ErrHookTimeout.Error()
		if stderrors.Is(runCtx.Err(), context.Canceled) {
			msg = "canceled"
			log.Debug().Dur("elapsed", elapsed).Msg("dispatch canceled mid-invocation")
		} else {
			log.Warn().Dur("elapsed", elapsed).Msg("handler exceeded deadline")
		}
		result = domain.HookResult{
			Status:  domain.StatusError,
			Message: msg,
		}
		return e.finish(ctx, def, ec, result, elapsed)
	}
}

// finish applies bookkeeping common to every invocation path: governor
// recording, slow-invocation annotations, and cache population.
func (e *Engine) finish(ctx context.Context, def domain.HookDefinition, ec domain.ExecutionContext, result domain.HookResult, elapsed time.Duration) domain.HookResult {
	result.HookID = def.ID
	result.Duration = elapsed

	annotations := e.governor.Record(ctx, def.ID, elapsed, domain.OutcomeOf(result))
	result.Annotations = append(result.Annotations, annotations...)

	if def.CacheTTL > 0 && result.Status == domain.StatusSuccess {
		// Only clean successes are cached, and governance annotations
		// stay out of the cached copy: a slow note describes one
		// invocation, not the value being replayed.
		cached := result
		cached.Annotations = nil
		e.cache.Put(def.ID, ec, cached, def.CacheTTL)
	}
	return result
}
