// Package config provides configuration management for gatekeeper with
// layered precedence.
//
// Configuration sources are loaded in the following order (highest
// precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (GATEKEEPER_* prefix)
//  3. Project config (.gatekeeper/config.yaml)
//  4. Global config (~/.gatekeeper/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for gatekeeper.
// It contains all configuration sections for the application.
type Config struct {
	// Logging contains settings for log output.
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Registry contains settings for hook definition loading.
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`

	// Cache contains settings for the hook result cache.
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// Governance contains the performance governor thresholds.
	Governance GovernanceConfig `yaml:"governance" mapstructure:"governance"`

	// Dispatch contains settings for concurrent hook execution.
	Dispatch DispatchConfig `yaml:"dispatch" mapstructure:"dispatch"`

	// Profiles maps custom profile names to their definitions.
	// Custom profiles are merged over the built-in minimal, standard
	// and advanced profiles; a custom profile with a built-in name
	// replaces the built-in.
	Profiles map[string]ProfileConfig `yaml:"profiles" mapstructure:"profiles"`
}

// LoggingConfig contains settings for log output.
type LoggingConfig struct {
	// Level is the minimum log level ("trace", "debug", "info", "warn",
	// "error").
	// Default: "info"
	Level string `yaml:"level" mapstructure:"level"`
}

// RegistryConfig contains settings for hook definition loading.
type RegistryConfig struct {
	// Path is the location of the hook definition file, relative to
	// the project root unless absolute.
	// Default: ".gatekeeper/hooks.yaml"
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig contains settings for the hook result cache.
type CacheConfig struct {
	// SweepInterval is how often expired entries are evicted in the
	// background. Set to 0 to disable background sweeping; expired
	// entries are still dropped lazily on read.
	// Default: 1 minute
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
}

// GovernanceConfig contains the performance governor thresholds.
// These settings control when slow or failing hooks are flagged and
// automatically disabled.
type GovernanceConfig struct {
	// WarnThreshold is the execution duration above which a hook result
	// is annotated as slow.
	// Default: 1 second
	WarnThreshold time.Duration `yaml:"warn_threshold" mapstructure:"warn_threshold"`

	// DisableThreshold is the execution duration above which a hook is
	// automatically disabled.
	// Default: 2 seconds
	DisableThreshold time.Duration `yaml:"disable_threshold" mapstructure:"disable_threshold"`

	// MaxConsecutiveFailures is the failure streak length that triggers
	// automatic disabling.
	// Default: 5
	MaxConsecutiveFailures int `yaml:"max_consecutive_failures" mapstructure:"max_consecutive_failures"`

	// Window is the number of recent executions retained per hook for
	// average duration reporting.
	// Default: 20
	Window int `yaml:"window" mapstructure:"window"`
}

// DispatchConfig contains settings for concurrent hook execution.
type DispatchConfig struct {
	// MaxConcurrent caps the number of hooks running at once per
	// dispatch.
	// Default: 16
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`

	// DefaultProfile is the profile used when none is given on the
	// command line.
	// Default: "standard"
	DefaultProfile string `yaml:"default_profile" mapstructure:"default_profile"`
}

// ProfileConfig defines a custom hook profile.
type ProfileConfig struct {
	// Budget is the aggregate time budget for one dispatch under this
	// profile.
	// Default: 30 seconds
	Budget time.Duration `yaml:"budget" mapstructure:"budget"`

	// Categories lists the hook categories this profile enables.
	// Valid values: "critical", "valuable", "enhancement"
	Categories []string `yaml:"categories" mapstructure:"categories"`

	// Hooks lists individual hook IDs this profile enables. When set,
	// it takes precedence over Categories.
	Hooks []string `yaml:"hooks,omitempty" mapstructure:"hooks"`
}
