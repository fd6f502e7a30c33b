// Package registry provides the static catalog of hook definitions.
//
// The registry is populated at startup, frozen, and read-only
// afterwards. Definitions are returned in registration order so that
// dispatch and aggregation output stays deterministic.
package registry

import (
	"fmt"
	"sync"

	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
)

// Registry is the in-memory catalog of hook definitions and their
// handlers. It is safe for concurrent use; all reads after Freeze() are
// lock-free in practice because nothing mutates.
type Registry struct {
	mu       sync.RWMutex
	defs     []domain.HookDefinition
	handlers map[string]domain.Handler
	index    map[string]int
	frozen   bool
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]domain.Handler),
		index:    make(map[string]int),
	}
}

// Register adds a definition and its handler to the registry.
// It fails with ErrDuplicateHookID when the id is already present and
// with ErrRegistryFrozen after Freeze() was called.
func (r *Registry) Register(def domain.HookDefinition, handler domain.Handler) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register hook %q", errors.ErrRegistryFrozen, def.ID)
	}
	if _, exists := r.index[def.ID]; exists {
		return fmt.Errorf("%w: %q", errors.ErrDuplicateHookID, def.ID)
	}

	r.index[def.ID] = len(r.defs)
	r.defs = append(r.defs, def)
	if handler != nil {
		r.handlers[def.ID] = handler
	}
	return nil
}

// Freeze makes the registry immutable. Subsequent Register calls fail
// with ErrRegistryFrozen. Freezing an already frozen registry is a
// no-op.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the definition for the given id.
func (r *Registry) Lookup(id string) (domain.HookDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return domain.HookDefinition{}, false
	}
	return r.defs[i], true
}

// Handler returns the registered handler for the given id, or nil when
// the hook has no handler bound (definition-only registration).
func (r *Registry) Handler(id string) domain.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[id]
}

// ByTrigger returns all definitions whose trigger events contain the
// event type, in registration order. The returned slice is a copy and
// safe for the caller to filter in place.
func (r *Registry) ByTrigger(eventType string) []domain.HookDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.HookDefinition
	for _, def := range r.defs {
		if def.Triggers(eventType) {
			out = append(out, def)
		}
	}
	return out
}

// All returns every registered definition in registration order.
func (r *Registry) All() []domain.HookDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.HookDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
