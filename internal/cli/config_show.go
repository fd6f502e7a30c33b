package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/gatekeeper/internal/config"
	"github.com/mrz1836/gatekeeper/internal/errors"
	"github.com/mrz1836/gatekeeper/internal/tui"
)

// newConfigCmd creates the config parent command.
func newConfigCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(newConfigShowCmd(flags))

	return cmd
}

// newConfigShowCmd creates the config show command, printing the fully
// merged configuration after all layers are applied.
func newConfigShowCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective merged configuration",
		Long: `Show the configuration after merging defaults, the global config file,
the project config file and environment overrides. Useful for
debugging which layer a value came from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectPath := flags.Project
			if projectPath == "" {
				wd, err := os.Getwd()
				if err != nil {
					return errors.Wrap(err, "failed to determine working directory")
				}
				projectPath = wd
			}

			cfg, err := config.Load(cmd.Context(), projectPath)
			if err != nil {
				return err
			}

			if flags.Output == OutputJSON {
				return tui.NewJSONOutput(cmd.OutOrStdout()).JSON(cfg)
			}

			w := cmd.OutOrStdout()
			if globalPath, pathErr := config.GlobalConfigPath(); pathErr == nil {
				fmt.Fprintf(w, "# global: %s\n", globalPath)
			}
			fmt.Fprintf(w, "# project: %s\n\n", filepath.Join(projectPath, config.ProjectConfigPath()))

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.Wrap(err, "failed to render configuration")
			}
			_, _ = w.Write(out)

			if len(cfg.Profiles) > 0 {
				names := make([]string, 0, len(cfg.Profiles))
				for name := range cfg.Profiles {
					names = append(names, name)
				}
				sort.Strings(names)
				fmt.Fprintf(w, "\n# custom profiles: %v\n", names)
			}
			return nil
		},
	}
}
