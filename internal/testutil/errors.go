// Package testutil provides testing utilities for gatekeeper.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockHandlerFailed simulates a hook handler returning an error.
	ErrMockHandlerFailed = errors.New("handler failed")

	// ErrMockStoreUnavailable simulates an unavailable state store.
	ErrMockStoreUnavailable = errors.New("state store unavailable")

	// ErrMockCommandFailed simulates a failing external command.
	ErrMockCommandFailed = errors.New("command failed")

	// ErrMockNotFound simulates a missing resource.
	ErrMockNotFound = errors.New("not found")
)
