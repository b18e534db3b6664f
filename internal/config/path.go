// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// Dirs holds the three local directories the pipeline works with.
type Dirs struct {
	Staging string
	Archive string
	Errors  string
}

// DefaultDirs returns the standard directory layout rooted at base.
func DefaultDirs(base string) Dirs {
	return Dirs{
		Staging: filepath.Join(base, "Downloads"),
		Archive: filepath.Join(base, "Archive"),
		Errors:  filepath.Join(base, "Errors"),
	}
}

// Ensure creates all three directories if they do not exist.
func (d Dirs) Ensure() error {
	for _, dir := range []string{d.Staging, d.Archive, d.Errors} {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
