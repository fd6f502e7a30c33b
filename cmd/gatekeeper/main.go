// Command gatekeeper is the hook execution and performance governance
// CLI. It dispatches lifecycle events through registered hooks,
// enforces execution budgets, and auto-disables hooks that repeatedly
// degrade performance.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/gatekeeper/internal/cli"
)

// Build metadata, injected via -ldflags at release time.
var (
	version = "dev" //nolint:gochecknoglobals // Set by ldflags
	commit  = ""    //nolint:gochecknoglobals // Set by ldflags
	date    = ""    //nolint:gochecknoglobals // Set by ldflags
)

func main() {
	err := cli.Execute(context.Background(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	os.Exit(cli.ExitCodeForError(err))
}
