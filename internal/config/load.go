package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/gatekeeper/internal/constants"
	"github.com/mrz1836/gatekeeper/internal/errors"
)

// newViperInstance creates a new Viper instance with standard gatekeeper
// configuration. This includes the environment variable prefix
// (GATEKEEPER_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file
// not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and
// validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper
// precedence. Configuration is loaded in the following order (highest
// precedence first):
//  1. Environment variables (GATEKEEPER_* prefix)
//  2. Project config (.gatekeeper/config.yaml)
//  3. Global config (~/.gatekeeper/config.yaml)
//  4. Built-in defaults
//
// projectPath is the project root; empty means the current working
// directory.
//
// The function returns an error only for actual configuration problems,
// not for missing config files (which are expected in many scenarios).
func Load(ctx context.Context, projectPath string) (*Config, error) {
	v := newViperInstance()

	// Load global config first (lower precedence)
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	// Load project config (higher precedence, merges over global)
	if err := loadProjectConfig(v, projectPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Dur("governance.warn_threshold", cfg.Governance.WarnThreshold).
		Dur("governance.disable_threshold", cfg.Governance.DisableThreshold).
		Int("dispatch.max_concurrent", cfg.Dispatch.MaxConcurrent).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// loadGlobalConfig attempts to load the global config file
// (~/.gatekeeper/config.yaml). Returns nil if the file doesn't exist or
// the home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		// Global config doesn't exist or home dir unavailable, skip silently
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if it exists.
func getGlobalConfigPathIfExists() (string, bool) {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(globalConfigPath); err != nil {
		return "", false
	}
	return globalConfigPath, true
}

// loadProjectConfig attempts to load the project config file
// (.gatekeeper/config.yaml under projectPath). Returns nil if the file
// doesn't exist.
func loadProjectConfig(v *viper.Viper, projectPath string) error {
	projectConfigPath := filepath.Join(projectPath, ProjectConfigPath())
	if !fileExists(projectConfigPath) {
		// Project config doesn't exist, skip silently
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// The overrides parameter contains values from CLI flags which have the
// highest precedence in the configuration hierarchy.
//
// Only non-zero values in overrides are applied. Zero values are ignored
// to allow partial overrides.
func LoadWithOverrides(ctx context.Context, projectPath string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	// Re-validate after applying overrides
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// This function allows precise control over which config files are loaded.
//
// projectConfigPath is the path to project-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetDefault("registry.path", defaults.Registry.Path)

	v.SetDefault("cache.sweep_interval", defaults.Cache.SweepInterval.String())

	v.SetDefault("governance.warn_threshold", defaults.Governance.WarnThreshold.String())
	v.SetDefault("governance.disable_threshold", defaults.Governance.DisableThreshold.String())
	v.SetDefault("governance.max_consecutive_failures", defaults.Governance.MaxConsecutiveFailures)
	v.SetDefault("governance.window", defaults.Governance.Window)

	v.SetDefault("dispatch.max_concurrent", defaults.Dispatch.MaxConcurrent)
	v.SetDefault("dispatch.default_profile", defaults.Dispatch.DefaultProfile)
}

// applyOverrides merges non-zero override values into the config.
// Only non-zero values are applied to allow partial overrides.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Logging.Level != "" {
		cfg.Logging.Level = overrides.Logging.Level
	}
	if overrides.Registry.Path != "" {
		cfg.Registry.Path = overrides.Registry.Path
	}
	if overrides.Cache.SweepInterval != 0 {
		cfg.Cache.SweepInterval = overrides.Cache.SweepInterval
	}
	if overrides.Governance.WarnThreshold != 0 {
		cfg.Governance.WarnThreshold = overrides.Governance.WarnThreshold
	}
	if overrides.Governance.DisableThreshold != 0 {
		cfg.Governance.DisableThreshold = overrides.Governance.DisableThreshold
	}
	if overrides.Governance.MaxConsecutiveFailures != 0 {
		cfg.Governance.MaxConsecutiveFailures = overrides.Governance.MaxConsecutiveFailures
	}
	if overrides.Governance.Window != 0 {
		cfg.Governance.Window = overrides.Governance.Window
	}
	if overrides.Dispatch.MaxConcurrent != 0 {
		cfg.Dispatch.MaxConcurrent = overrides.Dispatch.MaxConcurrent
	}
	if overrides.Dispatch.DefaultProfile != "" {
		cfg.Dispatch.DefaultProfile = overrides.Dispatch.DefaultProfile
	}
	if len(overrides.Profiles) > 0 {
		if cfg.Profiles == nil {
			cfg.Profiles = make(map[string]ProfileConfig, len(overrides.Profiles))
		}
		for name, p := range overrides.Profiles {
			cfg.Profiles[name] = p
		}
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from
// strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
