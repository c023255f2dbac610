// Package storage persists scan reports and serializes orchestrator runs.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists a finished report.
type Store interface {
	// SaveReport writes the raw report bytes at path, overwriting any
	// existing file.
	SaveReport(path string, payload []byte) error
}

// LocalStore writes reports to the local filesystem.
type LocalStore struct{}

// NewLocalStore returns a filesystem-backed report store.
func NewLocalStore() *LocalStore { return &LocalStore{} }

// SaveReport writes the report at path, creating parent directories as
// needed and overwriting any previous report.
func (s *LocalStore) SaveReport(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
