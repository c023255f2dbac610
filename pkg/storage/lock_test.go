package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLock_AcquireAndRelease(t *testing.T) {
	workspace := t.TempDir()

	lock, err := NewRunLock(workspace)
	require.NoError(t, err)

	require.NoError(t, lock.TryLock())
	_, err = os.Stat(filepath.Join(workspace, "run.lock"))
	assert.NoError(t, err)

	require.NoError(t, lock.Unlock())
}

func TestRunLock_SecondHolderIsRejected(t *testing.T) {
	workspace := t.TempDir()

	first, err := NewRunLock(workspace)
	require.NoError(t, err)
	require.NoError(t, first.TryLock())
	defer first.Unlock()

	second, err := NewRunLock(workspace)
	require.NoError(t, err)
	assert.ErrorIs(t, second.TryLock(), ErrLocked)
}

func TestRunLock_ReleasedLockCanBeRetaken(t *testing.T) {
	workspace := t.TempDir()

	first, err := NewRunLock(workspace)
	require.NoError(t, err)
	require.NoError(t, first.TryLock())
	require.NoError(t, first.Unlock())

	second, err := NewRunLock(workspace)
	require.NoError(t, err)
	require.NoError(t, second.TryLock())
	assert.NoError(t, second.Unlock())
}

func TestNewRunLock_CreatesWorkspace(t *testing.T) {
	workspace := filepath.Join(t.TempDir(), "gvmrun")

	_, err := NewRunLock(workspace)
	require.NoError(t, err)

	info, err := os.Stat(workspace)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
