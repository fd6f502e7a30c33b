package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gatekeeper/internal/logging"
)

func TestFilterSensitiveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		redacted bool
	}{
		{
			name:     "anthropic api key",
			input:    "using key sk-ant-api03-abcdef123456",
			redacted: true,
		},
		{
			name:     "github token",
			input:    "auth with ghp_abcdefghij1234567890abc",
			redacted: true,
		},
		{
			name:     "password assignment",
			input:    "password=supersecret123",
			redacted: true,
		},
		{
			name:     "bearer token",
			input:    "Bearer abcdefghijklmnopqrstuvwxyz",
			redacted: true,
		},
		{
			name:     "plain command line",
			input:    "go test ./...",
			redacted: false,
		},
		{
			name:     "empty string",
			input:    "",
			redacted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := logging.FilterSensitiveValue(tt.input)
			if tt.redacted {
				assert.Contains(t, got, logging.RedactedValue)
				assert.NotEqual(t, tt.input, got)
			} else {
				assert.Equal(t, tt.input, got)
			}
			assert.Equal(t, tt.redacted, logging.ContainsSensitiveData(tt.input))
		})
	}
}

func TestIsSensitiveFieldName(t *testing.T) {
	t.Parallel()

	assert.True(t, logging.IsSensitiveFieldName("api_key"))
	assert.True(t, logging.IsSensitiveFieldName("GITHUB_TOKEN"))
	assert.True(t, logging.IsSensitiveFieldName("db-password"))
	assert.False(t, logging.IsSensitiveFieldName("command"))
	assert.False(t, logging.IsSensitiveFieldName("threshold"))
}

func TestSafeValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, logging.RedactedValue, logging.SafeValue("api_key", "whatever"))
	assert.Equal(t, "go vet ./...", logging.SafeValue("command", "go vet ./..."))
}

func TestRedactConfig(t *testing.T) {
	t.Parallel()

	cfg := map[string]any{
		"command":   "license-scan --all",
		"api_token": "ghp_abcdefghij1234567890abc",
		"threshold": 80,
		"nested": map[string]any{
			"password": "hunter22-or-so",
			"retries":  3,
		},
		"args": []any{"--key", "sk-ant-api03-abcdef123456"},
	}

	got := logging.RedactConfig(cfg)

	assert.Equal(t, "license-scan --all", got["command"])
	assert.Equal(t, logging.RedactedValue, got["api_token"])
	assert.Equal(t, 80, got["threshold"])

	nested, ok := got["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, logging.RedactedValue, nested["password"])
	assert.Equal(t, 3, nested["retries"])

	args, ok := got["args"].([]any)
	require.True(t, ok)
	assert.Contains(t, args[1], logging.RedactedValue)

	// Original must be untouched.
	assert.Equal(t, "ghp_abcdefghij1234567890abc", cfg["api_token"])
}

func TestRedactConfigNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, logging.RedactConfig(nil))
}

func TestFilteringWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := logging.NewFilteringWriter(&buf)

	input := []byte("token=abcdefghijklmnopqrstuvwxyz0123456789ABCDEF")
	n, err := w.Write(input)
	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Contains(t, buf.String(), logging.RedactedValue)
	assert.NotContains(t, buf.String(), "abcdefghijklmnopqrstuvwxyz0123456789ABCDEF")
}

func TestSensitiveDataHookFlagsMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(logging.NewSensitiveDataHook())

	logger.Info().Msg("leaked password=supersecret123 in output")
	assert.Contains(t, buf.String(), "contains_filtered_data")

	buf.Reset()
	logger.Info().Msg("nothing to see here")
	assert.NotContains(t, buf.String(), "contains_filtered_data")
}
