package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/report"
)

func defs() []domain.HookDefinition {
	return []domain.HookDefinition{
		{ID: "cov", Category: domain.CategoryCritical, TriggerEvents: []string{"pre-commit"}},
		{ID: "lic", Category: domain.CategoryValuable, TriggerEvents: []string{"pre-commit"}},
		{ID: "fmt", Category: domain.CategoryEnhancement, TriggerEvents: []string{"pre-commit"}},
	}
}

func TestAggregateVerdicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		results     []domain.HookResult
		wantVerdict domain.Verdict
		wantBlocked bool
		wantWarning bool
	}{
		{
			name: "all success passes",
			results: []domain.HookResult{
				{HookID: "cov", Status: domain.StatusSuccess},
				{HookID: "lic", Status: domain.StatusSuccess},
			},
			wantVerdict: domain.VerdictPass,
		},
		{
			name: "skipped counts as pass",
			results: []domain.HookResult{
				{HookID: "cov", Status: domain.StatusSuccess},
				{HookID: "fmt", Status: domain.StatusSkipped, Message: "no files matched"},
			},
			wantVerdict: domain.VerdictPass,
		},
		{
			name: "cached success counts as pass",
			results: []domain.HookResult{
				{HookID: "cov", Status: domain.StatusSuccess, Cached: true},
			},
			wantVerdict: domain.VerdictPass,
		},
		{
			name: "one blocked critical blocks regardless of others",
			results: []domain.HookResult{
				{HookID: "cov", Status: domain.StatusBlocked, Message: "coverage below 80%"},
				{HookID: "lic", Status: domain.StatusSuccess},
				{HookID: "fmt", Status: domain.StatusSuccess},
			},
			wantVerdict: domain.VerdictBlock,
			wantBlocked: true,
		},
		{
			name: "warning without block warns",
			results: []domain.HookResult{
				{HookID: "cov", Status: domain.StatusSuccess},
				{HookID: "lic", Status: domain.StatusWarning, Message: "copyleft dependency"},
			},
			wantVerdict: domain.VerdictWarn,
			wantWarning: true,
		},
		{
			name: "error from non-critical hook warns",
			results: []domain.HookResult{
				{HookID: "cov", Status: domain.StatusSuccess},
				{HookID: "fmt", Status: domain.StatusError, Message: "timeout"},
			},
			wantVerdict: domain.VerdictWarn,
			wantWarning: true,
		},
		{
			name: "block takes precedence over warning",
			results: []domain.HookResult{
				{HookID: "cov", Status: domain.StatusBlocked},
				{HookID: "lic", Status: domain.StatusWarning},
			},
			wantVerdict: domain.VerdictBlock,
			wantBlocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rep := report.Aggregate(tt.results, defs())
			assert.Equal(t, tt.wantVerdict, rep.Verdict)
			assert.Equal(t, tt.wantBlocked, rep.Blocked)
			assert.Equal(t, tt.wantWarning, rep.Warning)
		})
	}
}

func TestAggregateDemotesIllegalBlock(t *testing.T) {
	t.Parallel()

	t.Run("enhancement hook cannot block", func(t *testing.T) {
		t.Parallel()
		rep := report.Aggregate([]domain.HookResult{
			{HookID: "fmt", Status: domain.StatusBlocked, Message: "unformatted"},
		}, defs())

		require.Len(t, rep.Results, 1)
		assert.Equal(t, domain.StatusWarning, rep.Results[0].Status)
		assert.False(t, rep.Blocked)
		assert.Equal(t, domain.VerdictWarn, rep.Verdict)
		require.NotEmpty(t, rep.Results[0].Annotations)
		assert.Contains(t, rep.Results[0].Annotations[0], "cannot block")
	})

	t.Run("opt-in hook may block", func(t *testing.T) {
		t.Parallel()
		optIn := []domain.HookDefinition{
			{ID: "lic", Category: domain.CategoryValuable, AllowBlock: true, TriggerEvents: []string{"pre-commit"}},
		}
		rep := report.Aggregate([]domain.HookResult{
			{HookID: "lic", Status: domain.StatusBlocked},
		}, optIn)

		assert.True(t, rep.Blocked)
		assert.Equal(t, domain.VerdictBlock, rep.Verdict)
	})
}

func TestAggregatePreservesOrder(t *testing.T) {
	t.Parallel()

	results := []domain.HookResult{
		{HookID: "cov", Status: domain.StatusSuccess},
		{HookID: "lic", Status: domain.StatusWarning},
		{HookID: "fmt", Status: domain.StatusSuccess},
	}

	rep := report.Aggregate(results, defs())
	require.Len(t, rep.Results, 3)
	assert.Equal(t, "cov", rep.Results[0].HookID)
	assert.Equal(t, "lic", rep.Results[1].HookID)
	assert.Equal(t, "fmt", rep.Results[2].HookID)
}

func TestAggregateNormalizesSkipReason(t *testing.T) {
	t.Parallel()

	rep := report.Aggregate([]domain.HookResult{
		{HookID: "fmt", Status: domain.StatusSkipped},
	}, defs())

	require.Len(t, rep.Results, 1)
	assert.NotEmpty(t, rep.Results[0].Message)
}

func TestSkippedReport(t *testing.T) {
	t.Parallel()

	rep := report.Skipped("no hooks matched event")
	assert.Equal(t, domain.VerdictSkip, rep.Verdict)
	assert.False(t, rep.Blocked)
	assert.Empty(t, rep.Results)
	assert.Equal(t, "no hooks matched event", rep.SkipReason)
	assert.Zero(t, rep.ExitCode())
}
