// Package domain contains core domain types for gatekeeper.
// This file defines hook definitions and the handler contract.
//
// Import rules per existing conventions:
// - CAN import: internal/constants, internal/errors, standard library
// - MUST NOT import: any other internal packages
package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/mrz1836/gatekeeper/internal/errors"
)

// Category classifies how much weight a hook's negative result carries.
// It determines default inclusion in profiles and precedence during
// aggregation.
type Category string

const (
	// CategoryCritical hooks may block the pipeline.
	CategoryCritical Category = "critical"

	// CategoryValuable hooks warn but never block by default.
	CategoryValuable Category = "valuable"

	// CategoryEnhancement hooks are advisory only.
	CategoryEnhancement Category = "enhancement"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryCritical, CategoryValuable, CategoryEnhancement:
		return true
	default:
		return false
	}
}

// HookDefinition is the immutable declaration of one registered check.
// Definitions are loaded at startup and never mutated afterwards.
type HookDefinition struct {
	// ID uniquely identifies the hook across the registry.
	ID string `json:"id" yaml:"id"`

	// Agent is the owning agent tag (e.g. "testing", "security").
	Agent string `json:"agent" yaml:"agent"`

	// Category controls profile inclusion and blocking rights.
	Category Category `json:"category" yaml:"category"`

	// TriggerEvents is the set of event types the hook responds to.
	TriggerEvents []string `json:"trigger_events" yaml:"trigger_events"`

	// PathPatterns optionally restricts file events to matching paths
	// (doublestar globs). Empty means all paths match.
	PathPatterns []string `json:"path_patterns,omitempty" yaml:"path_patterns,omitempty"`

	// CacheTTL is how long a result may be served from cache.
	// Zero disables caching entirely, required for hooks whose outcome
	// depends on "now" (deployment windows).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// AllowBlock lets a non-critical hook opt in to blocking verdicts.
	AllowBlock bool `json:"allow_block,omitempty" yaml:"allow_block,omitempty"`

	// Config is the hook's default configuration, merged with user
	// overrides once at registration time.
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Triggers reports whether the definition responds to the event type.
func (d HookDefinition) Triggers(eventType string) bool {
	for _, t := range d.TriggerEvents {
		if t == eventType {
			return true
		}
	}
	return false
}

// CanBlock reports whether a blocked result from this hook is legal.
func (d HookDefinition) CanBlock() bool {
	return d.Category == CategoryCritical || d.AllowBlock
}

// Validate checks the definition for structural problems.
func (d HookDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: empty id", errors.ErrInvalidDefinition)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("%w: hook %q has unknown category %q", errors.ErrInvalidDefinition, d.ID, d.Category)
	}
	if len(d.TriggerEvents) == 0 {
		return fmt.Errorf("%w: hook %q declares no trigger events", errors.ErrInvalidDefinition, d.ID)
	}
	if d.CacheTTL < 0 {
		return fmt.Errorf("%w: hook %q has negative cache TTL", errors.ErrInvalidDefinition, d.ID)
	}
	return nil
}

// Handler is the contract every hook body fulfills at the framework
// boundary. Handlers may fail by returning an error or by panicking;
// the execution engine treats both identically.
//
// Handlers must honor ctx cancellation on a best-effort basis. A handler
// that ignores cancellation still costs its own goroutine until it
// returns, but never delays the dispatch.
type Handler interface {
	Handle(ctx context.Context, ec ExecutionContext) (HookResult, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ec ExecutionContext) (HookResult, error)

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, ec ExecutionContext) (HookResult, error) {
	return f(ctx, ec)
}
