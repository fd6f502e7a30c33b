// Package errors provides centralized error handling for gatekeeper.
//
// This package defines sentinel errors used for programmatic error
// categorization throughout the application. All error types can be
// checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrDuplicateHookID indicates an attempt to register a hook whose
	// id is already present in the registry.
	ErrDuplicateHookID = errors.New("duplicate hook id")

	// ErrRegistryFrozen indicates an attempt to register a hook after
	// the registry was frozen.
	ErrRegistryFrozen = errors.New("registry is frozen")

	// ErrUnknownHook indicates a hook id that is not present in the
	// registry or governor.
	ErrUnknownHook = errors.New("unknown hook")

	// ErrUnknownProfile indicates a profile name with no configuration.
	// Callers resolving profiles fall back to the standard profile
	// instead of surfacing this error.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrInvalidDefinition indicates a hook definition that failed
	// validation (empty id, bad category, negative TTL).
	ErrInvalidDefinition = errors.New("invalid hook definition")

	// ErrInvalidConfig indicates an invalid configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrHookTimeout indicates a hook handler exceeded its deadline.
	ErrHookTimeout = errors.New("hook timed out")

	// ErrHookPanic indicates a hook handler panicked and was recovered
	// at the engine boundary.
	ErrHookPanic = errors.New("hook panicked")

	// ErrBlocked indicates the aggregate verdict of a dispatch was
	// blocked. Used by the CLI to map the verdict to a non-zero exit.
	ErrBlocked = errors.New("dispatch blocked")

	// ErrStateCorrupted indicates the persisted governor state file is
	// corrupted or unreadable.
	ErrStateCorrupted = errors.New("performance state corrupted")

	// ErrLockTimedOut indicates the state file lock could not be
	// acquired within the timeout period.
	ErrLockTimedOut = errors.New("lock acquisition timed out")

	// ErrMissingReason indicates a skipped hook result without a reason.
	ErrMissingReason = errors.New("skipped result requires a reason")

	// ErrNoCommand indicates a command-backed hook whose config does not
	// declare a command to run.
	ErrNoCommand = errors.New("no command configured")

	// ErrInvalidOutputFormat indicates an invalid output format was
	// specified on the command line.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrUserAborted indicates the user declined an interactive
	// confirmation.
	ErrUserAborted = errors.New("aborted by user")
)
