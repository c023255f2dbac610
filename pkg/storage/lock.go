package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked signals that another run already holds the workspace lock.
var ErrLocked = errors.New("another scan run is already in progress")

// RunLock is an advisory file lock serializing orchestrator runs against one
// daemon. The cleanup-before-scan step and the one-target-one-task invariant
// both assume a single run at a time; the lock makes that contract explicit
// instead of relying on operator discipline.
type RunLock struct {
	fl *flock.Flock
}

// NewRunLock creates a lock rooted in the given workspace directory.
func NewRunLock(workspaceDir string) (*RunLock, error) {
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", workspaceDir, err)
	}
	return &RunLock{fl: flock.New(filepath.Join(workspaceDir, "run.lock"))}, nil
}

// TryLock acquires the lock without blocking. ErrLocked when another run
// holds it.
func (l *RunLock) TryLock() error {
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock.
func (l *RunLock) Unlock() error {
	return l.fl.Unlock()
}
