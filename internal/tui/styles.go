// Package tui provides terminal output components for gatekeeper.
//
// All colors use AdaptiveColor for light/dark terminal support. Status
// displays keep triple redundancy: icon + color + text. Call
// CheckNoColor() at the start of commands that emit styled text so the
// NO_COLOR environment variable is respected.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/gatekeeper/internal/domain"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active states and primary actions.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for passing hooks.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings and slow hooks.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for blocked and failed hooks.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for skipped and disabled states.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles using AdaptiveColor for
// light/dark terminal support.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Dim    lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns true if the terminal supports colors.
// Returns false if NO_COLOR is set (any value including empty string) or
// TERM=dumb. This follows the NO_COLOR standard: https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// VerdictColors returns the semantic color per dispatch verdict.
func VerdictColors() map[domain.Verdict]lipgloss.AdaptiveColor {
	return map[domain.Verdict]lipgloss.AdaptiveColor{
		domain.VerdictPass:  ColorSuccess,
		domain.VerdictWarn:  ColorWarning,
		domain.VerdictBlock: ColorError,
		domain.VerdictSkip:  ColorMuted,
	}
}

// VerdictIcon returns the icon/symbol for a dispatch verdict.
func VerdictIcon(v domain.Verdict) string {
	icons := map[domain.Verdict]string{
		domain.VerdictPass:  "✓",
		domain.VerdictWarn:  "⚠",
		domain.VerdictBlock: "✗",
		domain.VerdictSkip:  "○",
	}
	if icon, ok := icons[v]; ok {
		return icon
	}
	return "?"
}

// StatusColors returns the semantic color per hook result status.
func StatusColors() map[domain.Status]lipgloss.AdaptiveColor {
	return map[domain.Status]lipgloss.AdaptiveColor{
		domain.StatusSuccess: ColorSuccess,
		domain.StatusWarning: ColorWarning,
		domain.StatusBlocked: ColorError,
		domain.StatusError:   ColorError,
		domain.StatusSkipped: ColorMuted,
	}
}

// StatusIcon returns the icon/symbol for a hook result status.
func StatusIcon(s domain.Status) string {
	icons := map[domain.Status]string{
		domain.StatusSuccess: "✓",
		domain.StatusWarning: "⚠",
		domain.StatusBlocked: "✗",
		domain.StatusError:   "✗",
		domain.StatusSkipped: "○",
	}
	if icon, ok := icons[s]; ok {
		return icon
	}
	return "?"
}

// FormatStatusWithIcon formats a hook result status with icon and text.
// Color is applied via lipgloss styles when rendering; this provides the
// icon + text layers of the redundancy.
func FormatStatusWithIcon(s domain.Status) string {
	return StatusIcon(s) + " " + string(s)
}

// PerfStateIcon returns the icon for a governor state.
func PerfStateIcon(state domain.PerfState) string {
	if state == domain.PerfStateDisabled {
		return "✗"
	}
	return "●"
}
