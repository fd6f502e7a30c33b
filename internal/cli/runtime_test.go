package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gatekeeper/internal/config"
	"github.com/mrz1836/gatekeeper/internal/logging"
)

const secretRegistry = `hooks:
  - id: deploy-gate
    agent: release
    category: critical
    trigger_events: [pre-deploy]
    config:
      command: "./deploy.sh"
      api_key: "sk-live-0123456789"
`

func TestBuildRegistryRedactsConfigInLogs(t *testing.T) {
	projectDir := setupProject(t, secretRegistry)

	cfg, err := config.Load(context.Background(), projectDir)
	require.NoError(t, err)

	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf).Level(zerolog.DebugLevel)

	reg, err := buildRegistry(cfg, projectDir, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	logs := logBuf.String()
	assert.Contains(t, logs, "hook registered")
	assert.Contains(t, logs, "./deploy.sh")
	assert.Contains(t, logs, logging.RedactedValue)
	assert.NotContains(t, logs, "sk-live-0123456789")
}
