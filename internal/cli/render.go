package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/tui"
)

// timePrecision rounds durations in text output so reports stay
// readable; full precision remains available in JSON output.
const timePrecision = time.Millisecond

// renderReport writes a dispatch report to w in the requested format.
// JSON output is the full report structure; text output is a styled
// per-hook summary followed by the verdict line.
func renderReport(w io.Writer, format string, report domain.Report) error {
	if format == OutputJSON {
		return tui.NewJSONOutput(w).JSON(report)
	}

	tui.CheckNoColor()
	out := tui.NewTTYOutput(w)

	if report.Verdict == domain.VerdictSkip {
		out.Verdict(report.Verdict, report.SkipReason)
		return nil
	}

	for _, result := range report.Results {
		renderResult(w, result)
	}

	fmt.Fprintln(w)
	out.Verdict(report.Verdict, fmt.Sprintf("%s %s in %s",
		report.Profile,
		pluralize(len(report.Results), "hook"),
		report.Duration.Round(timePrecision)))
	return nil
}

// renderResult writes one per-hook line: icon, hook id, duration and
// the message when there is one.
func renderResult(w io.Writer, result domain.HookResult) {
	line := fmt.Sprintf("%s %s", tui.FormatStatusWithIcon(result.Status), result.HookID)
	if result.Cached {
		line += " (cached)"
	} else if result.Duration > 0 {
		line += fmt.Sprintf(" (%s)", result.Duration.Round(timePrecision))
	}
	if result.Message != "" {
		line += ": " + result.Message
	}
	fmt.Fprintln(w, line)

	for _, note := range result.Annotations {
		fmt.Fprintf(w, "    %s\n", tui.NewOutputStyles().Dim.Render(note))
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
