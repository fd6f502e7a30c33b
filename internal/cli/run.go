package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gatekeeper/internal/constants"
	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
)

// newRunCmd creates the run command, which dispatches one event through
// the hook pipeline and renders the aggregate report.
func newRunCmd(flags *GlobalFlags) *cobra.Command {
	var (
		file        string
		contentHash string
		reason      string
		profileName string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "run <event-type>",
		Short: "Dispatch an event through the registered hooks",
		Long: fmt.Sprintf(`Dispatch one lifecycle event through every applicable hook and print
the aggregate report.

Known event types: %s. Custom event types are
dispatched as-is; hooks that do not declare them simply do not run.

The command exits 0 on pass, warn or skip verdicts and 1 when any hook
blocks.`, strings.Join(knownEventTypes(), ", ")),
		Example: `  # Run file-change hooks for a saved file
  gatekeeper run file-change --file internal/server/server.go

  # Run pre-deploy hooks with the advanced profile
  gatekeeper run pre-deploy --profile advanced

  # Re-run including auto-disabled hooks
  gatekeeper run pre-commit --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := newRuntime(ctx, flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			event := domain.Event{
				Type:        args[0],
				Path:        file,
				ContentHash: contentHash,
				ProjectPath: rt.projectPath,
				Reason:      reason,
			}

			name := profileName
			if name == "" {
				name = rt.cfg.Dispatch.DefaultProfile
			}

			report, err := rt.dispatcher.Dispatch(ctx, event, name, force)
			if err != nil {
				return err
			}

			if err := renderReport(cmd.OutOrStdout(), flags.Output, report); err != nil {
				return err
			}

			if report.Blocked {
				return errors.Wrapf(errors.ErrBlocked, "verdict %s", report.Verdict)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file path for file-scoped events")
	cmd.Flags().StringVar(&contentHash, "hash", "", "content hash of the file (feeds the result cache)")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "free-form trigger reason")
	cmd.Flags().StringVar(&profileName, "profile", "", "execution profile (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "include auto-disabled hooks in the dispatch")

	return cmd
}

func knownEventTypes() []string {
	return []string{
		constants.EventFileChange,
		constants.EventPreCommit,
		constants.EventPreDeploy,
		constants.EventSprintTransition,
	}
}
