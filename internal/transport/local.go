package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalSource treats a local directory as the transfer endpoint. Useful
// for offline runs and tests.
type LocalSource struct {
	dir string
}

// NewLocalSource creates a source over dir.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

// List returns the names of the regular files in the directory.
func (s *LocalSource) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Fetch copies the named file into localPath. The source file is left in
// place; routing moves only the staged copy.
func (s *LocalSource) Fetch(_ context.Context, name, localPath string) error {
	src, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(localPath)
		return fmt.Errorf("failed to copy %s: %w", name, err)
	}
	return dst.Close()
}

// Close is a no-op for local directories.
func (s *LocalSource) Close() error {
	return nil
}
