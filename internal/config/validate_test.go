package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gatekeeper/internal/config"
	"github.com/mrz1836/gatekeeper/internal/errors"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config { return config.DefaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*config.Config) {},
		},
		{
			name: "custom profile with categories",
			mutate: func(c *config.Config) {
				c.Profiles = map[string]config.ProfileConfig{
					"ci": {Budget: time.Minute, Categories: []string{"critical"}},
				}
			},
		},
		{
			name: "custom profile with hooks only",
			mutate: func(c *config.Config) {
				c.Profiles = map[string]config.ProfileConfig{
					"quick": {Hooks: []string{"coverage-gate"}},
				}
			},
		},
		{
			name:    "zero warn threshold",
			mutate:  func(c *config.Config) { c.Governance.WarnThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "zero disable threshold",
			mutate:  func(c *config.Config) { c.Governance.DisableThreshold = 0 },
			wantErr: true,
		},
		{
			name: "warn not below disable",
			mutate: func(c *config.Config) {
				c.Governance.WarnThreshold = 2 * time.Second
				c.Governance.DisableThreshold = 2 * time.Second
			},
			wantErr: true,
		},
		{
			name:    "zero failure streak",
			mutate:  func(c *config.Config) { c.Governance.MaxConsecutiveFailures = 0 },
			wantErr: true,
		},
		{
			name:    "zero window",
			mutate:  func(c *config.Config) { c.Governance.Window = 0 },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *config.Config) { c.Dispatch.MaxConcurrent = 0 },
			wantErr: true,
		},
		{
			name:    "empty default profile",
			mutate:  func(c *config.Config) { c.Dispatch.DefaultProfile = "" },
			wantErr: true,
		},
		{
			name:    "negative sweep interval",
			mutate:  func(c *config.Config) { c.Cache.SweepInterval = -time.Second },
			wantErr: true,
		},
		{
			name: "unknown category",
			mutate: func(c *config.Config) {
				c.Profiles = map[string]config.ProfileConfig{
					"bad": {Categories: []string{"cosmetic"}},
				}
			},
			wantErr: true,
		},
		{
			name: "profile enables nothing",
			mutate: func(c *config.Config) {
				c.Profiles = map[string]config.ProfileConfig{"empty": {Budget: time.Second}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			err := config.Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	t.Parallel()

	err := config.Validate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
