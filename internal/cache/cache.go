// Package cache provides the keyed, TTL-based store of prior hook
// results.
//
// Entries are keyed by (hook id, context fingerprint) and are immutable
// once stored, so reads are lock-free via sync.Map and unrelated hooks
// never serialize on a shared lock. Expired entries are removed lazily
// on lookup, plus an optional background sweep bounds memory. No result
// is ever served past its TTL.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gatekeeper/internal/clock"
	"github.com/mrz1836/gatekeeper/internal/domain"
)

// entry is one stored result. Immutable after Put.
type entry struct {
	result   domain.HookResult
	storedAt time.Time
	ttl      time.Duration
}

// expired reports whether the entry's TTL has elapsed at now.
func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// Cache stores hook results keyed by (hook id, context fingerprint).
// The zero value is not usable; construct with New.
type Cache struct {
	entries sync.Map // key string -> *entry
	clock   clock.Clock
	logger  zerolog.Logger

	sweepOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock used for TTL checks. Defaults to the system
// clock; tests inject a fake to control expiry.
func WithClock(c clock.Clock) Option {
	return func(cc *Cache) {
		cc.clock = c
	}
}

// WithLogger sets the logger. If not set, a no-op logger is used.
func WithLogger(logger zerolog.Logger) Option {
	return func(cc *Cache) {
		cc.logger = logger
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		clock:  clock.RealClock{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// key joins hook id and fingerprint with a separator that cannot appear
// in either part.
func key(hookID, fingerprint string) string {
	return hookID + "\x00" + fingerprint
}

// Get returns the cached result for the hook and context, if a live
// entry exists. Expired entries are deleted on the spot and reported as
// a miss.
func (c *Cache) Get(hookID string, ec domain.ExecutionContext) (domain.HookResult, bool) {
	k := key(hookID, Fingerprint(ec))
	v, ok := c.entries.Load(k)
	if !ok {
		return domain.HookResult{}, false
	}

	e := v.(*entry)
	if e.expired(c.clock.Now()) {
		c.entries.Delete(k)
		return domain.HookResult{}, false
	}
	return e.result, true
}

// Put stores a result under the hook and context fingerprint. A ttl of
// zero (caching disabled for the hook) is a no-op, so callers do not
// need to special-case it.
func (c *Cache) Put(hookID string, ec domain.ExecutionContext, result domain.HookResult, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.entries.Store(key(hookID, Fingerprint(ec)), &entry{
		result:   result,
		storedAt: c.clock.Now(),
		ttl:      ttl,
	})
}

// Len returns the number of stored entries, expired or not. Intended
// for tests and diagnostics.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep removes all expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.clock.Now()
	removed := 0
	c.entries.Range(func(k, v any) bool {
		if v.(*entry).expired(now) {
			c.entries.Delete(k)
			removed++
		}
		return true
	})
	return removed
}

// StartSweeper launches the background sweep loop. It runs until ctx is
// done and may be started at most once per Cache; later calls are
// no-ops. An interval of zero disables the sweeper.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.sweepOnce.Do(func() {
		go c.sweepLoop(ctx, interval)
	})
}

func (c *Cache) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.Sweep(); removed > 0 {
				c.logger.Debug().Int("removed", removed).Msg("cache sweep removed expired entries")
			}
		}
	}
}
