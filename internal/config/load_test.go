package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gatekeeper/internal/config"
	"github.com/mrz1836/gatekeeper/internal/constants"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, constants.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromPathsDefaults(t *testing.T) {
	cfg, err := config.LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, constants.DefaultWarnThreshold, cfg.Governance.WarnThreshold)
	assert.Equal(t, constants.DefaultDisableThreshold, cfg.Governance.DisableThreshold)
	assert.Equal(t, constants.DefaultMaxConsecutiveFailures, cfg.Governance.MaxConsecutiveFailures)
	assert.Equal(t, constants.DefaultPerfWindow, cfg.Governance.Window)
	assert.Equal(t, constants.DefaultMaxConcurrent, cfg.Dispatch.MaxConcurrent)
	assert.Equal(t, constants.ProfileStandard, cfg.Dispatch.DefaultProfile)
	assert.Equal(t, constants.DefaultSweepInterval, cfg.Cache.SweepInterval)
}

func TestLoadFromPathsProjectOverridesGlobal(t *testing.T) {
	globalPath := writeConfigFile(t, t.TempDir(), `
governance:
  warn_threshold: 500ms
  disable_threshold: 3s
dispatch:
  max_concurrent: 4
`)
	projectPath := writeConfigFile(t, t.TempDir(), `
governance:
  warn_threshold: 750ms
`)

	cfg, err := config.LoadFromPaths(context.Background(), projectPath, globalPath)
	require.NoError(t, err)

	// Project wins for the key it sets, global survives elsewhere.
	assert.Equal(t, 750*time.Millisecond, cfg.Governance.WarnThreshold)
	assert.Equal(t, 3*time.Second, cfg.Governance.DisableThreshold)
	assert.Equal(t, 4, cfg.Dispatch.MaxConcurrent)
}

func TestLoadFromPathsCustomProfiles(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), `
profiles:
  ci:
    budget: 2m
    categories: [critical, valuable]
  quick:
    budget: 500ms
    hooks: [coverage-gate]
`)

	cfg, err := config.LoadFromPaths(context.Background(), path, "")
	require.NoError(t, err)

	require.Contains(t, cfg.Profiles, "ci")
	assert.Equal(t, 2*time.Minute, cfg.Profiles["ci"].Budget)
	assert.Equal(t, []string{"critical", "valuable"}, cfg.Profiles["ci"].Categories)

	require.Contains(t, cfg.Profiles, "quick")
	assert.Equal(t, []string{"coverage-gate"}, cfg.Profiles["quick"].Hooks)
}

func TestLoadFromPathsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "warn above disable",
			content: `
governance:
  warn_threshold: 5s
  disable_threshold: 2s
`,
		},
		{
			name: "zero concurrency",
			content: `
dispatch:
  max_concurrent: 0
`,
		},
		{
			name: "unknown profile category",
			content: `
profiles:
  bad:
    categories: [cosmetic]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, t.TempDir(), tt.content)
			_, err := config.LoadFromPaths(context.Background(), path, "")
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFilesUsesDefaults(t *testing.T) {
	cfg, err := config.Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, constants.ProfileStandard, cfg.Dispatch.DefaultProfile)
	assert.Equal(t, constants.DefaultMaxConcurrent, cfg.Dispatch.MaxConcurrent)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GATEKEEPER_DISPATCH_MAX_CONCURRENT", "2")

	cfg, err := config.Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Dispatch.MaxConcurrent)
}

func TestLoadWithOverrides(t *testing.T) {
	overrides := &config.Config{
		Logging:  config.LoggingConfig{Level: "debug"},
		Dispatch: config.DispatchConfig{DefaultProfile: "advanced"},
	}

	cfg, err := config.LoadWithOverrides(context.Background(), t.TempDir(), overrides)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "advanced", cfg.Dispatch.DefaultProfile)
	// Untouched sections keep their defaults.
	assert.Equal(t, constants.DefaultWarnThreshold, cfg.Governance.WarnThreshold)
}
