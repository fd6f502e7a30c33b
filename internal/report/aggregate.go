// Package report implements the result aggregator: a pure merge of all
// per-hook results for one event into an overall verdict plus a
// structured, ordered report.
//
// All stateful effects (cache writes, performance records) already
// happened in the execution engine; aggregation is side-effect-free.
package report

import (
	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
)

// Aggregate merges per-hook results into a Report. Results must be in
// registration order and defs must align by index with results; the
// order is preserved so output stays deterministic and reproducible.
//
// A blocked status from a hook that cannot legally block (non-critical
// without opt-in) is demoted to a warning with an explanatory note.
func Aggregate(results []domain.HookResult, defs []domain.HookDefinition) domain.Report {
	byID := make(map[string]domain.HookDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}

	out := make([]domain.HookResult, len(results))
	blocked := false
	warning := false

	for i, res := range results {
		if res.Status == domain.StatusSkipped && res.Message == "" {
			res.Message = errors.ErrMissingReason.Error()
		}

		if res.Status == domain.StatusBlocked {
			def, known := byID[res.HookID]
			if known && !def.CanBlock() {
				res.Status = domain.StatusWarning
				res.Annotations = append(res.Annotations, "demoted: category "+string(def.Category)+" cannot block")
			}
		}

		switch res.Status {
		case domain.StatusBlocked:
			blocked = true
		case domain.StatusWarning, domain.StatusError:
			warning = true
		case domain.StatusSuccess, domain.StatusSkipped:
			// Neutral.
		}

		out[i] = res
	}

	verdict := domain.VerdictPass
	switch {
	case blocked:
		verdict = domain.VerdictBlock
	case warning:
		verdict = domain.VerdictWarn
	}

	return domain.Report{
		Verdict: verdict,
		Blocked: blocked,
		Warning: warning && !blocked,
		Results: out,
	}
}

// Skipped builds the report for a dispatch that matched no hooks. A
// no-op dispatch is a valid, cheap outcome.
func Skipped(reason string) domain.Report {
	return domain.Report{
		Verdict:    domain.VerdictSkip,
		SkipReason: reason,
		Results:    []domain.HookResult{},
	}
}
