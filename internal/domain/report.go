package domain

import "time"

// Verdict is the aggregate outcome of one dispatch.
type Verdict string

const (
	// VerdictPass means every hook succeeded, was skipped, or was served
	// a cached success.
	VerdictPass Verdict = "pass"

	// VerdictWarn means at least one hook warned or errored, but nothing
	// blocked.
	VerdictWarn Verdict = "warn"

	// VerdictBlock means at least one hook legally blocked.
	VerdictBlock Verdict = "block"

	// VerdictSkip means no hooks matched the event; the dispatch was a
	// cheap no-op.
	VerdictSkip Verdict = "skip"
)

// Report is the aggregated, ordered outcome of one dispatch across all
// applicable hooks. Per-hook results are preserved in registration order
// for deterministic, reproducible output.
type Report struct {
	// DispatchID uniquely identifies the dispatch.
	DispatchID string `json:"dispatch_id"`

	// Event is the triggering event.
	Event Event `json:"event"`

	// Profile is the resolved profile name.
	Profile string `json:"profile"`

	// Verdict is the aggregate outcome.
	Verdict Verdict `json:"verdict"`

	// Blocked is true when any result blocked the dispatch.
	Blocked bool `json:"blocked"`

	// Warning is true when the dispatch warned without blocking.
	Warning bool `json:"warning"`

	// SkipReason explains a VerdictSkip report.
	SkipReason string `json:"skip_reason,omitempty"`

	// Results holds per-hook results in registration order. Every hook
	// that was eligible to run appears here with an explicit status.
	Results []HookResult `json:"results"`

	// StartedAt is when the dispatch began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total dispatch wall time.
	Duration time.Duration `json:"duration"`
}

// ExitCode maps the verdict to a CLI exit code: blocked is non-zero,
// everything else is zero.
func (r Report) ExitCode() int {
	if r.Blocked {
		return 1
	}
	return 0
}
