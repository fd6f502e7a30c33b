//go:build windows

package flock

import "golang.org/x/sys/windows"

// LockFileEx has no whole-file mode, so we lock a one-byte range at
// offset zero. Every gatekeeper process locks the same range, which
// gives the same mutual exclusion as flock(2) on unix.
const (
	lockReserved  = 0
	lockBytesLow  = 1
	lockBytesHigh = 0
)

// Exclusive takes a non-blocking exclusive range lock on the handle.
// LOCKFILE_FAIL_IMMEDIATELY makes a contended lock return an error
// instead of waiting, matching the unix flock semantics.
func Exclusive(fd uintptr) error {
	return windows.LockFileEx(
		windows.Handle(fd),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}

// Unlock releases the range locked by Exclusive.
func Unlock(fd uintptr) error {
	return windows.UnlockFileEx(
		windows.Handle(fd),
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}
