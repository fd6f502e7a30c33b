package config

import (
	"path/filepath"

	"github.com/mrz1836/gatekeeper/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			// Level: "info" keeps normal runs quiet while surfacing
			// governance actions. Use "debug" to trace cache and
			// profile decisions.
			Level: "info",
		},
		Registry: RegistryConfig{
			// Path: hook definitions live next to the project config.
			Path: filepath.Join(constants.StateDirName, constants.RegistryFileName),
		},
		Cache: CacheConfig{
			SweepInterval: constants.DefaultSweepInterval,
		},
		Governance: GovernanceConfig{
			// Thresholds follow the principle that hooks must stay
			// fast enough to run on every event without the user
			// noticing them.
			WarnThreshold:          constants.DefaultWarnThreshold,
			DisableThreshold:       constants.DefaultDisableThreshold,
			MaxConsecutiveFailures: constants.DefaultMaxConsecutiveFailures,
			Window:                 constants.DefaultPerfWindow,
		},
		Dispatch: DispatchConfig{
			MaxConcurrent:  constants.DefaultMaxConcurrent,
			DefaultProfile: constants.ProfileStandard,
		},
		// Profiles: empty map, the built-ins are always available.
		Profiles: nil,
	}
}
