package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
	"github.com/mrz1836/gatekeeper/internal/logging"
)

// maxCapturedOutput caps how much command output is kept in the result
// details. Hooks that dump megabytes of output still get a usable
// report without bloating the JSON.
const maxCapturedOutput = 8 * 1024

// commandHandler runs the shell command configured for a hook. It is
// the default handler bound to every definition loaded from the
// registry file.
//
// Exit code 0 maps to success, any other exit code to blocked (the
// aggregator demotes the block to a warning when the hook's category
// does not permit blocking). A command that cannot be started at all is
// an error, not a finding.
type commandHandler struct {
	logger zerolog.Logger
}

func newCommandHandler(logger zerolog.Logger) domain.Handler {
	return &commandHandler{logger: logger}
}

// Handle executes the configured command with the dispatch deadline
// applied. When no command is configured the hook is skipped with an
// explicit reason rather than failing: a registry entry without a
// command is a declaration the operator has not wired up yet.
func (h *commandHandler) Handle(ctx context.Context, ec domain.ExecutionContext) (domain.HookResult, error) {
	command, _ := ec.Config["command"].(string)
	if strings.TrimSpace(command) == "" {
		return domain.SkippedResult("", errors.ErrNoCommand.Error()), nil
	}

	h.logger.Debug().
		Str("command", logging.SafeValue("command", command)).
		Str("event_type", ec.Event.Type).
		Msg("running hook command")

	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // Command comes from the operator's own registry file
	if ec.Event.ProjectPath != "" {
		cmd.Dir = ec.Event.ProjectPath
	}
	cmd.Env = commandEnv(ec.Event)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	details := map[string]any{
		"output": truncateOutput(output.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && ctx.Err() == nil {
			details["exit_code"] = exitErr.ExitCode()
			return domain.HookResult{
				Status:  domain.StatusBlocked,
				Message: firstLine(output.String()),
				Details: details,
			}, nil
		}
		// Start failure or context cancellation; the engine classifies
		// this as a hook error.
		return domain.HookResult{Details: details}, err
	}

	return domain.HookResult{
		Status:  domain.StatusSuccess,
		Details: details,
	}, nil
}

// commandEnv builds the child environment: the parent environment plus
// GATEKEEPER_* variables describing the triggering event.
func commandEnv(event domain.Event) []string {
	env := os.Environ()
	env = append(env,
		"GATEKEEPER_EVENT_TYPE="+event.Type,
		"GATEKEEPER_EVENT_PATH="+event.Path,
		"GATEKEEPER_EVENT_REASON="+event.Reason,
	)
	for k, v := range event.Payload {
		key := "GATEKEEPER_EVENT_" + strings.ToUpper(strings.ReplaceAll(k, "-", "_"))
		env = append(env, key+"="+v)
	}
	return env
}

// truncateOutput trims trailing whitespace and caps the captured size.
func truncateOutput(s string) string {
	s = strings.TrimRight(s, "\n")
	if len(s) > maxCapturedOutput {
		return s[:maxCapturedOutput] + "\n... (output truncated)"
	}
	return s
}

// firstLine returns the first non-empty line of command output, used as
// the result message for failed commands.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "command failed"
}
