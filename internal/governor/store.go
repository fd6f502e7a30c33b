package governor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/gatekeeper/internal/constants"
	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
	"github.com/mrz1836/gatekeeper/internal/flock"
)

// FileStore persists performance records as JSON under the state
// directory. Writes are atomic (temp file + rename) and guarded by an
// exclusive file lock so concurrent gatekeeper processes never
// interleave partial writes.
type FileStore struct {
	path        string
	lockTimeout time.Duration
}

// NewFileStore creates a FileStore rooted at dir. The directory is
// created on first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		path:        filepath.Join(dir, constants.PerformanceStateFile),
		lockTimeout: constants.LockAcquireTimeout,
	}
}

// Path returns the state file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads all persisted records. A missing state file yields an
// empty map; a corrupted one returns ErrStateCorrupted.
func (s *FileStore) Load(_ context.Context) (map[string]domain.PerformanceRecord, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 -- path derived from validated state dir
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]domain.PerformanceRecord{}, nil
		}
		return nil, errors.Wrap(err, "failed to read performance state")
	}

	var records map[string]domain.PerformanceRecord
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStateCorrupted, err)
	}
	if records == nil {
		records = map[string]domain.PerformanceRecord{}
	}
	return records, nil
}

// Save atomically replaces the persisted records.
func (s *FileStore) Save(ctx context.Context, records map[string]domain.PerformanceRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create state directory")
	}

	lock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = flock.Unlock(lock.Fd())
		_ = lock.Close()
	}()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal performance state")
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write performance state")
	}
	if err = os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to replace performance state")
	}
	return nil
}

// acquireLock obtains the exclusive state lock, retrying until the
// timeout elapses or ctx is canceled.
func (s *FileStore) acquireLock(ctx context.Context) (*os.File, error) {
	lockPath := s.path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- path derived from validated state dir
	if err != nil {
		return nil, errors.Wrap(err, "failed to open state lock")
	}

	deadline := time.Now().Add(s.lockTimeout)
	interval := 50 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		default:
		}

		if err = flock.Exclusive(f.Fd()); err == nil {
			return f, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, errors.Wrapf(errors.ErrLockTimedOut, "after %v", s.lockTimeout)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			_ = f.Close()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
