package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/gatekeeper/internal/domain"
)

// Output writes user-facing command feedback. Two implementations
// exist: styled text for humans and JSON for pipelines. Advisory
// messages are dropped in JSON mode so stdout stays parseable.
type Output interface {
	// Success prints a confirmation line.
	Success(msg string)
	// Warning prints a non-fatal problem.
	Warning(msg string)
	// Info prints a neutral status line.
	Info(msg string)
	// Error prints a failure.
	Error(err error)
	// Verdict prints the dispatch outcome line: icon, upper-cased
	// verdict, and an optional detail suffix.
	Verdict(v domain.Verdict, detail string)
	// JSON emits a value as an indented JSON document.
	JSON(v any) error
}

// NewOutput selects the implementation for the requested format.
// Anything other than "json" gets the styled text output.
func NewOutput(w io.Writer, format string) Output {
	if format == "json" {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}

// TTYOutput renders icon-prefixed lines styled per the semantic color
// palette.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a styled text output over w.
func NewTTYOutput(w io.Writer) *TTYOutput {
	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
	}
}

// Success prints a green check line.
func (o *TTYOutput) Success(msg string) {
	o.line(o.styles.Success, "✓", msg)
}

// Warning prints a yellow caution line.
func (o *TTYOutput) Warning(msg string) {
	o.line(o.styles.Warning, "⚠", msg)
}

// Info prints an unprefixed status line.
func (o *TTYOutput) Info(msg string) {
	o.line(o.styles.Info, "", msg)
}

// Error prints a red failure line.
func (o *TTYOutput) Error(err error) {
	o.line(o.styles.Error, "✗", err.Error())
}

// Verdict prints the dispatch outcome with its icon and color, the
// verdict upper-cased, and the dimmed detail suffix when given.
func (o *TTYOutput) Verdict(v domain.Verdict, detail string) {
	style := lipgloss.NewStyle().Bold(true).Foreground(VerdictColors()[v])
	line := VerdictIcon(v) + " " + style.Render(strings.ToUpper(string(v)))
	if detail != "" {
		line += "  " + o.styles.Dim.Render(detail)
	}
	_, _ = fmt.Fprintln(o.w, line)
}

// JSON emits the value as indented JSON. Available in text mode too so
// commands can mix styled lines with structured payloads.
func (o *TTYOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

func (o *TTYOutput) line(style lipgloss.Style, icon, msg string) {
	if icon != "" {
		msg = icon + " " + msg
	}
	_, _ = fmt.Fprintln(o.w, style.Render(msg))
}

// JSONOutput keeps stdout machine-readable: advisory messages and
// verdict lines are suppressed because the report document already
// carries the verdict; errors become their own JSON document.
type JSONOutput struct {
	w io.Writer
}

// NewJSONOutput creates a JSON output over w.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w}
}

// Success is suppressed in JSON mode.
func (o *JSONOutput) Success(string) {}

// Warning is suppressed in JSON mode.
func (o *JSONOutput) Warning(string) {}

// Info is suppressed in JSON mode.
func (o *JSONOutput) Info(string) {}

// Verdict is suppressed in JSON mode; the report document carries it.
func (o *JSONOutput) Verdict(domain.Verdict, string) {}

// Error emits the error as a JSON document.
func (o *JSONOutput) Error(err error) {
	_ = encodeJSON(o.w, map[string]string{"error": err.Error()})
}

// JSON emits the value as indented JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
