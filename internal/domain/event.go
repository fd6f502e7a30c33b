package domain

import "time"

// Event is one lifecycle occurrence dispatched into the framework.
type Event struct {
	// Type is the event type string (see internal/constants).
	Type string `json:"type"`

	// Path is the file path for file-scoped events, empty otherwise.
	Path string `json:"path,omitempty"`

	// ContentHash is a stable hash of the file content at Path, supplied
	// by the caller. It feeds the cache fingerprint so identical saves
	// hit the cache while edits miss it.
	ContentHash string `json:"content_hash,omitempty"`

	// ProjectPath is the project root the event belongs to.
	ProjectPath string `json:"project_path,omitempty"`

	// Reason is a free-form trigger reason (e.g. "pre-push", "manual").
	Reason string `json:"reason,omitempty"`

	// Payload carries additional event-specific key/value data.
	Payload map[string]string `json:"payload,omitempty"`
}

// ExecutionContext is created per dispatch and passed to exactly one
// hook invocation. It is consumed by the execution engine and discarded
// after the call returns or times out - never shared or mutated
// concurrently.
type ExecutionContext struct {
	// Event is the triggering event.
	Event Event

	// Config is the hook's effective configuration, merged once at
	// registration time (defaults + user overrides). Handlers must not
	// re-read configuration from any other source at call time.
	Config map[string]any

	// Deadline is the absolute time by which the handler must return.
	Deadline time.Time
}
