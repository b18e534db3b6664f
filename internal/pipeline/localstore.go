package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore implements the storage-move primitive over three local
// directories: staging, archive, and error store. A file only ever lives
// in one of them at a time; moves are single renames so an aborted run
// leaves the file either staged or fully routed.
type LocalStore struct {
	stagingDir string
	archiveDir string
	errorDir   string
}

// NewLocalStore creates a store over the given directories.
func NewLocalStore(stagingDir, archiveDir, errorDir string) *LocalStore {
	return &LocalStore{
		stagingDir: stagingDir,
		archiveDir: archiveDir,
		errorDir:   errorDir,
	}
}

// StagingPath returns where a fetched file is staged.
func (s *LocalStore) StagingPath(name string) string {
	return filepath.Join(s.stagingDir, name)
}

// Archive moves a staged file into the archive under archiveName.
func (s *LocalStore) Archive(name, archiveName string) error {
	return s.move(name, filepath.Join(s.archiveDir, archiveName))
}

// Quarantine moves a staged file into the error store unchanged in name.
func (s *LocalStore) Quarantine(name string) error {
	return s.move(name, filepath.Join(s.errorDir, name))
}

// Discard removes a staged file. A file that is already gone is not an error.
func (s *LocalStore) Discard(name string) error {
	err := os.Remove(s.StagingPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to discard %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) move(name, dest string) error {
	// Refuse destination collisions rather than silently overwriting a
	// previously routed file.
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("destination already exists: %s", dest)
	}
	if err := os.Rename(s.StagingPath(name), dest); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", name, dest, err)
	}
	return nil
}
