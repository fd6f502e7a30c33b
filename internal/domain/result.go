package domain

import (
	"time"

	"github.com/mrz1836/gatekeeper/internal/errors"
)

// Status is the outcome of one hook invocation.
type Status string

const (
	// StatusSuccess indicates the check passed.
	StatusSuccess Status = "success"

	// StatusWarning indicates a non-blocking problem.
	StatusWarning Status = "warning"

	// StatusBlocked indicates the check failed hard. Only legal for
	// critical hooks or hooks whose config opts in; the aggregator
	// demotes illegal blocks to warnings.
	StatusBlocked Status = "blocked"

	// StatusSkipped indicates the check did not run. Skipped results
	// must carry a reason in Message.
	StatusSkipped Status = "skipped"

	// StatusError indicates the handler failed, panicked, or timed out.
	StatusError Status = "error"
)

// HookResult is returned by one hook invocation.
type HookResult struct {
	// HookID identifies the hook that produced the result. Populated by
	// the execution engine; handlers may leave it empty.
	HookID string `json:"hook_id"`

	// Status is the invocation outcome.
	Status Status `json:"status"`

	// Message is a human-readable summary. Required for skipped results
	// (the skip reason).
	Message string `json:"message,omitempty"`

	// Details is an opaque structured payload owned by the hook.
	Details map[string]any `json:"details,omitempty"`

	// Duration is the wall time the invocation took. Zero for
	// cache-served results.
	Duration time.Duration `json:"duration"`

	// Cached is true when the result was served from the cache layer.
	Cached bool `json:"cached,omitempty"`

	// Annotations carries non-blocking governance notes (e.g. slow
	// invocation warnings) attached by the performance governor.
	Annotations []string `json:"annotations,omitempty"`
}

// SkippedResult builds a skipped HookResult with the mandatory reason.
// An empty reason violates the contract, so the placeholder names the
// violation instead of hiding it.
func SkippedResult(hookID, reason string) HookResult {
	if reason == "" {
		reason = errors.ErrMissingReason.Error()
	}
	return HookResult{
		HookID:  hookID,
		Status:  StatusSkipped,
		Message: reason,
	}
}

// Failed reports whether the result counts toward a failure streak in
// the performance governor. Cached results never do.
func (r HookResult) Failed() bool {
	return r.Status == StatusError && !r.Cached
}

// Outcome is the governor-facing classification of a completed
// invocation.
type Outcome string

const (
	// OutcomeSuccess covers every non-error completion.
	OutcomeSuccess Outcome = "success"

	// OutcomeError covers handler errors, panics, and timeouts.
	OutcomeError Outcome = "error"

	// OutcomeCached marks a cache-served result, which never counts
	// toward failure streaks or auto-disable.
	OutcomeCached Outcome = "cached"
)

// OutcomeOf maps a result status to its governor outcome.
func OutcomeOf(r HookResult) Outcome {
	switch {
	case r.Cached:
		return OutcomeCached
	case r.Status == StatusError:
		return OutcomeError
	default:
		return OutcomeSuccess
	}
}
