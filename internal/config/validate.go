package config

import (
	"github.com/mrz1836/gatekeeper/internal/errors"
)

// validCategories are the hook categories a profile may enable.
var validCategories = map[string]struct{}{
	"critical":    {},
	"valuable":    {},
	"enhancement": {},
}

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - governance thresholds must be positive, warn below disable
//   - governance failure streak and window must be at least 1
//   - dispatch concurrency must be at least 1
//   - custom profiles must use known categories and a positive budget
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.Wrap(errors.ErrInvalidConfig, "configuration is nil")
	}

	if err := validateGovernance(&cfg.Governance); err != nil {
		return err
	}

	if err := validateDispatch(&cfg.Dispatch); err != nil {
		return err
	}

	if cfg.Cache.SweepInterval < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"cache.sweep_interval cannot be negative, got %s", cfg.Cache.SweepInterval)
	}

	for name, p := range cfg.Profiles {
		if err := validateProfile(name, p); err != nil {
			return err
		}
	}

	return nil
}

// validateGovernance checks the performance governor thresholds.
func validateGovernance(cfg *GovernanceConfig) error {
	if cfg.WarnThreshold <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"governance.warn_threshold must be positive, got %s", cfg.WarnThreshold)
	}

	if cfg.DisableThreshold <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"governance.disable_threshold must be positive, got %s", cfg.DisableThreshold)
	}

	if cfg.WarnThreshold >= cfg.DisableThreshold {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"governance.warn_threshold (%s) must be below disable_threshold (%s)",
			cfg.WarnThreshold, cfg.DisableThreshold)
	}

	if cfg.MaxConsecutiveFailures < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"governance.max_consecutive_failures must be at least 1, got %d", cfg.MaxConsecutiveFailures)
	}

	if cfg.Window < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"governance.window must be at least 1, got %d", cfg.Window)
	}

	return nil
}

// validateDispatch checks the concurrent execution settings.
func validateDispatch(cfg *DispatchConfig) error {
	if cfg.MaxConcurrent < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"dispatch.max_concurrent must be at least 1, got %d", cfg.MaxConcurrent)
	}

	if cfg.DefaultProfile == "" {
		return errors.Wrap(errors.ErrInvalidConfig,
			"dispatch.default_profile must not be empty")
	}

	return nil
}

// validateProfile checks one custom profile definition.
func validateProfile(name string, p ProfileConfig) error {
	if name == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "profile name must not be empty")
	}

	if p.Budget < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"profile %q: budget cannot be negative, got %s", name, p.Budget)
	}

	for _, c := range p.Categories {
		if _, ok := validCategories[c]; !ok {
			return errors.Wrapf(errors.ErrInvalidConfig,
				"profile %q: unknown category %q", name, c)
		}
	}

	if len(p.Categories) == 0 && len(p.Hooks) == 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"profile %q: must enable at least one category or hook", name)
	}

	return nil
}
