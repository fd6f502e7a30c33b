//go:build unix

package flock

import "syscall"

// Exclusive takes an exclusive flock(2) on fd without blocking. A held
// lock surfaces as EWOULDBLOCK, which callers treat as "another
// gatekeeper process owns the state file right now".
func Exclusive(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_EX|syscall.LOCK_NB)
}

// Unlock drops the flock held on fd. The kernel also releases it when
// the descriptor closes, so this is safe to pair with a deferred Close.
func Unlock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_UN)
}
