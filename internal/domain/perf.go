package domain

import "time"

// PerfState is the governance state of one hook.
type PerfState string

const (
	// PerfStateEnabled means the hook is eligible to run.
	PerfStateEnabled PerfState = "enabled"

	// PerfStateDisabled means the circuit breaker tripped. The only way
	// back to enabled is an explicit operator re-enable.
	PerfStateDisabled PerfState = "disabled"
)

// PerformanceRecord tracks rolling execution metrics for one hook.
// Records are owned by the performance governor and mutated only through
// its synchronized API; they are persisted across process invocations.
type PerformanceRecord struct {
	// HookID identifies the hook.
	HookID string `json:"hook_id"`

	// Durations is a bounded ring of the most recent invocation times,
	// oldest first. Capacity is constants.DefaultPerfWindow.
	Durations []time.Duration `json:"durations"`

	// ConsecutiveFailures counts error outcomes since the last
	// successful (non-error, non-cached) invocation.
	ConsecutiveFailures int `json:"consecutive_failures"`

	// State is enabled or disabled.
	State PerfState `json:"state"`

	// DisabledAt is when the breaker tripped. Zero when enabled.
	DisabledAt time.Time `json:"disabled_at,omitzero"`

	// DisabledReason explains why the breaker tripped.
	DisabledReason string `json:"disabled_reason,omitempty"`
}

// Average returns the mean of the rolling duration samples, or zero when
// no samples exist.
func (r PerformanceRecord) Average() time.Duration {
	if len(r.Durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range r.Durations {
		total += d
	}
	return total / time.Duration(len(r.Durations))
}
