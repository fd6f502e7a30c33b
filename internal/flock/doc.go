// Package flock provides cross-platform file locking utilities.
//
// Gatekeeper processes are short-lived and may run concurrently (two
// file-save events dispatched at once). The persisted governor state is
// guarded by an exclusive, non-blocking file lock so concurrent
// processes never interleave partial writes.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    // Lock not acquired - state file is in use
//	}
//	defer flock.Unlock(file.Fd())
package flock
