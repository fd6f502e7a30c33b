package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/gatekeeper/internal/clock"
)

func TestRealClockNow(t *testing.T) {
	t.Parallel()

	c := clock.RealClock{}
	before := time.Now()
	now := c.Now()
	after := time.Now()

	assert.False(t, now.Before(before), "RealClock.Now() should not be before time.Now() called earlier")
	assert.False(t, now.After(after), "RealClock.Now() should not be after time.Now() called later")
}
