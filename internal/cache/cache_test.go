package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gatekeeper/internal/cache"
	"github.com/mrz1836/gatekeeper/internal/domain"
)

// fakeClock is a controllable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func testCtx(eventType, path string) domain.ExecutionContext {
	return domain.ExecutionContext{
		Event: domain.Event{
			Type:        eventType,
			Path:        path,
			ContentHash: "abc123",
		},
		Config: map[string]any{"min_coverage": 80},
	}
}

func successResult(id string) domain.HookResult {
	return domain.HookResult{
		HookID:  id,
		Status:  domain.StatusSuccess,
		Details: map[string]any{"coverage": 91.2},
	}
}

func TestCacheGetPut(t *testing.T) {
	t.Parallel()

	t.Run("miss on empty cache", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		_, hit := c.Get("cov", testCtx("pre-commit", "main.go"))
		assert.False(t, hit)
	})

	t.Run("hit within ttl", func(t *testing.T) {
		t.Parallel()
		clk := newFakeClock()
		c := cache.New(cache.WithClock(clk))
		ec := testCtx("pre-commit", "main.go")

		c.Put("cov", ec, successResult("cov"), 5*time.Minute)

		clk.Advance(4 * time.Minute)
		got, hit := c.Get("cov", ec)
		require.True(t, hit)
		assert.Equal(t, domain.StatusSuccess, got.Status)
		assert.InDelta(t, 91.2, got.Details["coverage"], 0.001)
	})

	t.Run("miss after ttl elapses and entry is removed", func(t *testing.T) {
		t.Parallel()
		clk := newFakeClock()
		c := cache.New(cache.WithClock(clk))
		ec := testCtx("pre-commit", "main.go")

		c.Put("cov", ec, successResult("cov"), 5*time.Minute)
		clk.Advance(5*time.Minute + time.Second)

		_, hit := c.Get("cov", ec)
		assert.False(t, hit)
		assert.Zero(t, c.Len(), "expired entry should be removed lazily")
	})

	t.Run("ttl zero never stores", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		ec := testCtx("pre-deploy", "")

		c.Put("deploy-window", ec, successResult("deploy-window"), 0)
		_, hit := c.Get("deploy-window", ec)
		assert.False(t, hit)
		assert.Zero(t, c.Len())
	})

	t.Run("different hooks do not collide", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		ec := testCtx("pre-commit", "main.go")

		c.Put("cov", ec, successResult("cov"), time.Minute)
		_, hit := c.Get("fmt", ec)
		assert.False(t, hit)
	})

	t.Run("different content hashes do not collide", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		first := testCtx("file-change", "main.go")
		second := testCtx("file-change", "main.go")
		second.Event.ContentHash = "different"

		c.Put("fmt", first, successResult("fmt"), time.Minute)
		_, hit := c.Get("fmt", second)
		assert.False(t, hit, "edited file must miss the cache")
	})
}

func TestCacheSweep(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := cache.New(cache.WithClock(clk))

	c.Put("a", testCtx("pre-commit", "a.go"), successResult("a"), time.Minute)
	c.Put("b", testCtx("pre-commit", "b.go"), successResult("b"), time.Hour)
	require.Equal(t, 2, c.Len())

	clk.Advance(2 * time.Minute)
	removed := c.Sweep()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())

	_, hit := c.Get("b", testCtx("pre-commit", "b.go"))
	assert.True(t, hit, "unexpired entry must survive the sweep")
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("deterministic for equal contexts", func(t *testing.T) {
		t.Parallel()
		a := testCtx("pre-commit", "main.go")
		b := testCtx("pre-commit", "main.go")
		assert.Equal(t, cache.Fingerprint(a), cache.Fingerprint(b))
	})

	t.Run("config key order does not matter", func(t *testing.T) {
		t.Parallel()
		a := domain.ExecutionContext{Config: map[string]any{"x": 1, "y": 2}}
		b := domain.ExecutionContext{Config: map[string]any{"y": 2, "x": 1}}
		assert.Equal(t, cache.Fingerprint(a), cache.Fingerprint(b))
	})

	t.Run("sensitive to each relevant field", func(t *testing.T) {
		t.Parallel()
		base := testCtx("pre-commit", "main.go")

		mutations := map[string]func(*domain.ExecutionContext){
			"event type":   func(ec *domain.ExecutionContext) { ec.Event.Type = "pre-deploy" },
			"path":         func(ec *domain.ExecutionContext) { ec.Event.Path = "other.go" },
			"content hash": func(ec *domain.ExecutionContext) { ec.Event.ContentHash = "zzz" },
			"config":       func(ec *domain.ExecutionContext) { ec.Config = map[string]any{"min_coverage": 90} },
		}

		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				mutated := base
				mutate(&mutated)
				assert.NotEqual(t, cache.Fingerprint(base), cache.Fingerprint(mutated))
			})
		}
	})

	t.Run("insensitive to deadline", func(t *testing.T) {
		t.Parallel()
		a := testCtx("pre-commit", "main.go")
		b := testCtx("pre-commit", "main.go")
		b.Deadline = time.Now().Add(time.Hour)
		assert.Equal(t, cache.Fingerprint(a), cache.Fingerprint(b))
	})

	t.Run("adjacent fields cannot collide", func(t *testing.T) {
		t.Parallel()
		a := domain.ExecutionContext{Event: domain.Event{Type: "ab", Path: "c"}}
		b := domain.ExecutionContext{Event: domain.Event{Type: "a", Path: "bc"}}
		assert.NotEqual(t, cache.Fingerprint(a), cache.Fingerprint(b))
	})
}
