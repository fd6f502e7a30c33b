// Package constants provides centralized constant values for gatekeeper.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package constants

import "time"

// Lifecycle event types dispatched by the host pipeline.
const (
	// EventFileChange fires when a watched file is saved or modified.
	EventFileChange = "file-change"

	// EventPreCommit fires before a git commit is created.
	EventPreCommit = "pre-commit"

	// EventPreDeploy fires before a deployment is allowed to proceed.
	EventPreDeploy = "pre-deploy"

	// EventSprintTransition fires when the sprint state machine advances.
	EventSprintTransition = "sprint-transition"
)

// Built-in profile names.
const (
	// ProfileMinimal runs critical hooks only.
	ProfileMinimal = "minimal"

	// ProfileStandard runs critical and valuable hooks.
	ProfileStandard = "standard"

	// ProfileAdvanced runs all hook categories.
	ProfileAdvanced = "advanced"
)

// Governance thresholds. All three are configurable; these are the
// shipped defaults.
const (
	// DefaultWarnThreshold marks a hook invocation as slow without
	// changing its state.
	DefaultWarnThreshold = 1000 * time.Millisecond

	// DefaultDisableThreshold auto-disables a hook after a single
	// invocation slower than this.
	DefaultDisableThreshold = 2000 * time.Millisecond

	// DefaultMaxConsecutiveFailures auto-disables a hook after this many
	// error outcomes in a row.
	DefaultMaxConsecutiveFailures = 5

	// DefaultPerfWindow is the ring buffer capacity for rolling duration
	// samples per hook.
	DefaultPerfWindow = 20
)

// Dispatch defaults.
const (
	// DefaultBudget is the aggregate wall-time ceiling for one dispatch
	// when the profile does not set its own.
	DefaultBudget = 30 * time.Second

	// DefaultMaxConcurrent bounds the dispatcher worker pool. Hook counts
	// per event are small, so the bound mostly protects against
	// misconfigured registries.
	DefaultMaxConcurrent = 16

	// BudgetGracePeriod is how long the dispatcher waits past the budget
	// for engine bookkeeping before force-reporting outstanding hooks.
	BudgetGracePeriod = 100 * time.Millisecond
)

// Cache defaults.
const (
	// DefaultSweepInterval is how often the background sweeper removes
	// expired cache entries. Zero disables the sweeper.
	DefaultSweepInterval = 1 * time.Minute
)

// State persistence defaults.
const (
	// StateDirName is the dot-directory under the user home (or project
	// root) holding config and persisted governor state.
	StateDirName = ".gatekeeper"

	// PerformanceStateFile is the JSON file holding persisted
	// performance records.
	PerformanceStateFile = "performance.json"

	// LockAcquireTimeout bounds how long a process waits for the state
	// file lock before giving up.
	LockAcquireTimeout = 2 * time.Second

	// LogDirName is the directory under StateDirName for rotated logs.
	LogDirName = "logs"

	// LogFileName is the rotated log file name.
	LogFileName = "gatekeeper.log"
)

// Log rotation settings.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of a rotated log file.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// ConfigFileName is the YAML configuration file name looked up in both
// the global and project state directories.
const ConfigFileName = "config.yaml"

// RegistryFileName is the declarative hook definition document looked up
// in the project state directory.
const RegistryFileName = "hooks.yaml"

// EnvPrefix is the environment variable prefix for configuration
// overrides (GATEKEEPER_*).
const EnvPrefix = "GATEKEEPER"
