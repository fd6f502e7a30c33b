package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/gatekeeper/internal/errors"
)

// BuildInfo carries version metadata stamped at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalLogger holds the CLI logger after initialization so commands
// and runtime wiring can retrieve it without threading it through every
// call site.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // Set once in PersistentPreRunE
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger configured during command startup.
// Before InitLogger runs it returns the zero logger, which discards
// all events.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func storeLogger(logger zerolog.Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = logger
}

// newRootCmd creates the root gatekeeper command with global flags and
// all subcommands attached.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gatekeeper",
		Short:   "Hook execution and performance governance",
		Long:    "Gatekeeper runs registered hooks in response to workflow events,\nenforces execution budgets, and automatically disables hooks that\nrepeatedly degrade performance.",
		Version: formatVersion(info),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(viper.New(), cmd); err != nil {
				return err
			}

			if !IsValidOutputFormat(flags.Output) {
				return errors.Wrapf(errors.ErrInvalidOutputFormat, "%q (valid: %v)", flags.Output, ValidOutputFormats())
			}

			logger := InitLogger(flags.Verbose, flags.Quiet)
			storeLogger(logger)
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	cmd.AddCommand(
		newRunCmd(flags),
		newHooksCmd(flags),
		newConfigCmd(flags),
	)

	return cmd
}

// formatVersion renders build metadata for the --version flag.
func formatVersion(info BuildInfo) string {
	version := info.Version
	if version == "" {
		version = "dev"
	}
	if info.Commit != "" {
		version = fmt.Sprintf("%s (%s)", version, info.Commit)
	}
	if info.Date != "" {
		version = fmt.Sprintf("%s built %s", version, info.Date)
	}
	return version
}

// Execute runs the gatekeeper CLI and returns the resulting error, if
// any. The caller is responsible for mapping the error to a process
// exit code via ExitCodeForError.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	defer CloseLogFile()
	return cmd.ExecuteContext(ctx)
}
