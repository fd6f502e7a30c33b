// Package profile implements named hook profiles: bundles of enabled
// hook categories plus an aggregate time budget, used to trade
// thoroughness for speed per dispatch.
package profile

import (
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/mrz1836/gatekeeper/internal/constants"
	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
	"github.com/mrz1836/gatekeeper/internal/governor"
	"github.com/mrz1836/gatekeeper/internal/registry"
)

// Builtins returns the three built-in profiles keyed by name.
func Builtins() map[string]domain.Profile {
	return map[string]domain.Profile{
		constants.ProfileMinimal: {
			Name:       constants.ProfileMinimal,
			Budget:     constants.DefaultBudget,
			Categories: []domain.Category{domain.CategoryCritical},
		},
		constants.ProfileStandard: {
			Name:       constants.ProfileStandard,
			Budget:     constants.DefaultBudget,
			Categories: []domain.Category{domain.CategoryCritical, domain.CategoryValuable},
		},
		constants.ProfileAdvanced: {
			Name:       constants.ProfileAdvanced,
			Budget:     constants.DefaultBudget,
			Categories: []domain.Category{domain.CategoryCritical, domain.CategoryValuable, domain.CategoryEnhancement},
		},
	}
}

// Manager resolves the applicable hooks and budget for one event.
// Resolution is a pure function over the registry and the governor's
// current state; it is cheap and safe to call concurrently.
type Manager struct {
	registry *registry.Registry
	governor *governor.Governor
	profiles map[string]domain.Profile
	logger   zerolog.Logger
}

// New creates a Manager. The profiles map should contain at least the
// built-ins; custom profiles from configuration are merged on top by the
// caller.
func New(reg *registry.Registry, gov *governor.Governor, profiles map[string]domain.Profile, logger zerolog.Logger) *Manager {
	if profiles == nil {
		profiles = Builtins()
	}
	return &Manager{
		registry: reg,
		governor: gov,
		profiles: profiles,
		logger:   logger,
	}
}

// Profile returns the named profile and whether it exists.
func (m *Manager) Profile(name string) (domain.Profile, bool) {
	p, ok := m.profiles[name]
	return p, ok
}

// Resolve returns the hooks applicable to the event under the named
// profile, in registration order, plus the profile's time budget.
//
// An unknown profile name falls back to the standard profile with a
// logged warning, never an error: a missing profile must not block work.
// Governor-disabled hooks are excluded unless force is true (manual
// re-test).
func (m *Manager) Resolve(profileName string, event domain.Event, force bool) ([]domain.HookDefinition, time.Duration) {
	prof, ok := m.profiles[profileName]
	if !ok {
		m.logger.Warn().
			Err(errors.ErrUnknownProfile).
			Str("profile", profileName).
			Str("fallback", constants.ProfileStandard).
			Msg("falling back to standard profile")
		prof = m.profiles[constants.ProfileStandard]
	}

	var out []domain.HookDefinition
	for _, def := range m.registry.ByTrigger(event.Type) {
		if !prof.Includes(def) {
			continue
		}
		if !matchesPath(def, event) {
			continue
		}
		if !force && !m.governor.Enabled(def.ID) {
			m.logger.Debug().Str("hook", def.ID).Msg("excluding governance-disabled hook")
			continue
		}
		out = append(out, def)
	}

	budget := prof.Budget
	if budget <= 0 {
		budget = constants.DefaultBudget
	}
	return out, budget
}

// matchesPath applies the definition's path patterns to file-scoped
// events. Hooks without patterns match every path; events without a
// path match every hook.
func matchesPath(def domain.HookDefinition, event domain.Event) bool {
	if len(def.PathPatterns) == 0 || event.Path == "" {
		return true
	}
	for _, pattern := range def.PathPatterns {
		if ok, err := doublestar.Match(pattern, event.Path); err == nil && ok {
			return true
		}
	}
	return false
}
