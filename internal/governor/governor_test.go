package governor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
	"github.com/mrz1836/gatekeeper/internal/governor"
)

// fakeClock is a controllable clock for disable timestamps.
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

func testThresholds() governor.Thresholds {
	return governor.Thresholds{
		Warn:                   1000 * time.Millisecond,
		Disable:                2000 * time.Millisecond,
		MaxConsecutiveFailures: 5,
	}
}

func TestGovernorWarningRule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := governor.New(ctx, governor.WithThresholds(testThresholds()))

	t.Run("fast invocation gets no annotation", func(t *testing.T) {
		notes := g.Record(ctx, "cov", 200*time.Millisecond, domain.OutcomeSuccess)
		assert.Empty(t, notes)
		assert.True(t, g.Enabled("cov"))
	})

	t.Run("slow invocation below disable gets annotation", func(t *testing.T) {
		notes := g.Record(ctx, "cov", 1500*time.Millisecond, domain.OutcomeSuccess)
		require.Len(t, notes, 1)
		assert.Contains(t, notes[0], "slow")
		assert.True(t, g.Enabled("cov"), "warning must not change state")
	})
}

func TestGovernorAutoDisable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("disables on single slow invocation", func(t *testing.T) {
		t.Parallel()
		var events []governor.Event
		g := governor.New(ctx,
			governor.WithThresholds(testThresholds()),
			governor.WithClock(newFakeClock()),
			governor.WithListener(func(e governor.Event) { events = append(events, e) }),
		)

		g.Record(ctx, "dep", 2500*time.Millisecond, domain.OutcomeSuccess)

		assert.False(t, g.Enabled("dep"))
		rec, ok := g.Lookup("dep")
		require.True(t, ok)
		assert.Equal(t, domain.PerfStateDisabled, rec.State)
		assert.False(t, rec.DisabledAt.IsZero())
		assert.Contains(t, rec.DisabledReason, "disable threshold")

		require.Len(t, events, 1)
		assert.Equal(t, "dep", events[0].HookID)
	})

	t.Run("disables after max consecutive failures", func(t *testing.T) {
		t.Parallel()
		g := governor.New(ctx, governor.WithThresholds(testThresholds()))

		for i := range 5 {
			assert.True(t, g.Enabled("lint"), "must stay enabled before failure %d", i+1)
			g.Record(ctx, "lint", 100*time.Millisecond, domain.OutcomeError)
		}

		assert.False(t, g.Enabled("lint"))
		rec, _ := g.Lookup("lint")
		assert.Contains(t, rec.DisabledReason, "consecutive failures")
	})

	t.Run("success resets the failure streak", func(t *testing.T) {
		t.Parallel()
		g := governor.New(ctx, governor.WithThresholds(testThresholds()))

		for range 4 {
			g.Record(ctx, "sec", 100*time.Millisecond, domain.OutcomeError)
		}
		g.Record(ctx, "sec", 100*time.Millisecond, domain.OutcomeSuccess)
		for range 4 {
			g.Record(ctx, "sec", 100*time.Millisecond, domain.OutcomeError)
		}

		assert.True(t, g.Enabled("sec"), "streak must reset on success")
		rec, _ := g.Lookup("sec")
		assert.Equal(t, 4, rec.ConsecutiveFailures)
	})

	t.Run("cached outcomes never count", func(t *testing.T) {
		t.Parallel()
		g := governor.New(ctx, governor.WithThresholds(testThresholds()))

		for range 4 {
			g.Record(ctx, "cov", 100*time.Millisecond, domain.OutcomeError)
		}
		// A cache hit must neither extend nor reset the streak.
		g.Record(ctx, "cov", 0, domain.OutcomeCached)

		rec, _ := g.Lookup("cov")
		assert.Equal(t, 4, rec.ConsecutiveFailures)
		assert.Len(t, rec.Durations, 4, "cached outcome must not append a sample")

		g.Record(ctx, "cov", 100*time.Millisecond, domain.OutcomeError)
		assert.False(t, g.Enabled("cov"))
	})
}

func TestGovernorRollingWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := governor.New(ctx,
		governor.WithThresholds(testThresholds()),
		governor.WithWindow(3),
	)

	for i := 1; i <= 5; i++ {
		g.Record(ctx, "cov", time.Duration(i)*time.Millisecond, domain.OutcomeSuccess)
	}

	rec, ok := g.Lookup("cov")
	require.True(t, ok)
	assert.Equal(t, []time.Duration{
		3 * time.Millisecond,
		4 * time.Millisecond,
		5 * time.Millisecond,
	}, rec.Durations, "oldest samples must be dropped beyond capacity")
}

func TestGovernorReenable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reenables a disabled hook", func(t *testing.T) {
		t.Parallel()
		g := governor.New(ctx, governor.WithThresholds(testThresholds()))

		g.Record(ctx, "dep", 3*time.Second, domain.OutcomeSuccess)
		require.False(t, g.Enabled("dep"))

		require.NoError(t, g.Reenable(ctx, "dep"))

		assert.True(t, g.Enabled("dep"))
		rec, _ := g.Lookup("dep")
		assert.Equal(t, domain.PerfStateEnabled, rec.State)
		assert.Zero(t, rec.ConsecutiveFailures)
		assert.Empty(t, rec.Durations, "the slow sample that tripped the breaker must not survive re-enable")
		assert.Zero(t, rec.Average())
		assert.True(t, rec.DisabledAt.IsZero())
		assert.Empty(t, rec.DisabledReason)
	})

	t.Run("unknown hook returns error", func(t *testing.T) {
		t.Parallel()
		g := governor.New(ctx)
		err := g.Reenable(ctx, "ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownHook)
	})
}

func TestGovernorSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := governor.New(ctx, governor.WithThresholds(testThresholds()))
	g.Record(ctx, "zeta", 10*time.Millisecond, domain.OutcomeSuccess)
	g.Record(ctx, "alpha", 10*time.Millisecond, domain.OutcomeSuccess)

	snap := g.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "alpha", snap[0].HookID, "snapshot must be sorted by hook id")
	assert.Equal(t, "zeta", snap[1].HookID)
}

func TestGovernorConcurrentRecording(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := governor.New(ctx, governor.WithThresholds(testThresholds()), governor.WithWindow(100))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				g.Record(ctx, "cov", time.Millisecond, domain.OutcomeSuccess)
				g.Enabled("cov")
			}
		}()
	}
	wg.Wait()

	rec, ok := g.Lookup("cov")
	require.True(t, ok)
	assert.Len(t, rec.Durations, 100)
	assert.True(t, g.Enabled("cov"))
}
