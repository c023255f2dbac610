package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveReport_WritesPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openvas.report")

	err := NewLocalStore().SaveReport(path, []byte("<report/>"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<report/>", string(data))
}

func TestSaveReport_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "scan.pdf")

	err := NewLocalStore().SaveReport(path, []byte{0x25, 0x50, 0x44, 0x46})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 4)
}

func TestSaveReport_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openvas.report")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	err := NewLocalStore().SaveReport(path, []byte("fresh"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}
