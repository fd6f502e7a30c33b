package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
	"github.com/mrz1836/gatekeeper/internal/tui"
)

// terminalCheck reports whether stdin is a terminal. Variable so tests
// can force non-interactive behavior.
var terminalCheck = func() bool { //nolint:gochecknoglobals // Test injection point
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newHooksCmd creates the hooks parent command.
func newHooksCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Inspect and manage registered hooks",
	}

	cmd.AddCommand(
		newHooksListCmd(flags),
		newHooksReenableCmd(flags),
	)

	return cmd
}

// hookRow is one line of the hooks list, combining the registry
// definition with the governor's performance record.
type hookRow struct {
	Definition domain.HookDefinition `json:"definition"`
	State      domain.PerfState      `json:"state"`
	AvgMillis  int64                 `json:"avg_ms"`
	Failures   int                   `json:"consecutive_failures"`
	Disabled   string                `json:"disabled_reason,omitempty"`
}

// newHooksListCmd creates the hooks list command showing every
// registered hook with its category, triggers and governance state.
func newHooksListCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered hooks and their governance state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			rows := make([]hookRow, 0, rt.registry.Len())
			for _, def := range rt.registry.All() {
				row := hookRow{Definition: def, State: domain.PerfStateEnabled}
				if rec, ok := rt.governor.Lookup(def.ID); ok {
					row.State = rec.State
					row.AvgMillis = rec.Average().Milliseconds()
					row.Failures = rec.ConsecutiveFailures
					row.Disabled = rec.DisabledReason
				}
				rows = append(rows, row)
			}

			if flags.Output == OutputJSON {
				return tui.NewJSONOutput(cmd.OutOrStdout()).JSON(rows)
			}

			renderHooksTable(cmd, rows)
			return nil
		},
	}
}

// renderHooksTable writes the hooks list as a styled table.
func renderHooksTable(cmd *cobra.Command, rows []hookRow) {
	w := cmd.OutOrStdout()
	if len(rows) == 0 {
		tui.NewTTYOutput(w).Info("no hooks registered")
		return
	}

	tui.CheckNoColor()

	columns := []tui.TableColumn{
		{Name: "ID", Width: 20, Align: tui.AlignLeft},
		{Name: "CATEGORY", Width: 11, Align: tui.AlignLeft},
		{Name: "TRIGGERS", Width: 24, Align: tui.AlignLeft},
		{Name: "AVG", Width: 8, Align: tui.AlignRight},
		{Name: "STATE", Width: 10, Align: tui.AlignLeft},
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		avg := "-"
		if row.AvgMillis > 0 {
			avg = fmt.Sprintf("%dms", row.AvgMillis)
		}
		state := tui.PerfStateIcon(row.State) + " " + string(row.State)
		cells = append(cells, []string{
			row.Definition.ID,
			string(row.Definition.Category),
			strings.Join(row.Definition.TriggerEvents, ","),
			avg,
			state,
		})
	}

	table := tui.NewTable(w, tui.FitColumns(columns, cells))
	table.WriteHeader()
	for i, row := range cells {
		table.WriteRow(row...)
		if reason := rows[i].Disabled; reason != "" {
			fmt.Fprintf(w, "  %s\n", tui.NewTableStyles().Dim.Render("disabled: "+reason))
		}
	}
}

// newHooksReenableCmd creates the hooks reenable command, the only path
// back to enabled for an auto-disabled hook.
func newHooksReenableCmd(flags *GlobalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reenable <hook-id>",
		Short: "Re-enable an auto-disabled hook",
		Long: `Re-enable a hook that the performance governor disabled. The failure
streak and duration history are reset so one old slow run cannot
immediately trip the breaker again.

There is no automatic recovery path; this command is the only way a
disabled hook runs again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hookID := args[0]

			rt, err := newRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			rec, ok := rt.governor.Lookup(hookID)
			if !ok {
				if _, registered := rt.registry.Lookup(hookID); !registered {
					return errors.Wrapf(errors.ErrUnknownHook, "%q", hookID)
				}
				tui.NewOutput(cmd.OutOrStdout(), flags.Output).Info(fmt.Sprintf("hook %q has no recorded executions; nothing to re-enable", hookID))
				return nil
			}

			if rec.State == domain.PerfStateEnabled {
				tui.NewOutput(cmd.OutOrStdout(), flags.Output).Info(fmt.Sprintf("hook %q is already enabled", hookID))
				return nil
			}

			if !yes {
				confirmed, err := confirmReenable(hookID, rec.DisabledReason)
				if err != nil {
					return err
				}
				if !confirmed {
					return errors.ErrUserAborted
				}
			}

			if err := rt.governor.Reenable(cmd.Context(), hookID); err != nil {
				return err
			}

			tui.NewOutput(cmd.OutOrStdout(), flags.Output).Success(fmt.Sprintf("hook %q re-enabled", hookID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// confirmReenable prompts for confirmation before re-enabling. In a
// non-interactive session the prompt cannot run, so the caller must
// pass --yes explicitly.
func confirmReenable(hookID, reason string) (bool, error) {
	if !terminalCheck() {
		return false, errors.Wrap(errors.ErrUserAborted, "no terminal available for confirmation, pass --yes to confirm")
	}

	title := fmt.Sprintf("Re-enable hook %q?", hookID)
	description := "The hook was disabled automatically."
	if reason != "" {
		description = "Disabled reason: " + reason
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Re-enable").
				Negative("Cancel").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return false, errors.Wrap(err, "confirmation prompt failed")
	}
	return confirm, nil
}
