// Package ledger persists the set of filenames already routed to a
// terminal state, preventing reprocessing across runs.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultFilename is the sidecar file colocated with the staging directory.
const DefaultFilename = "processed_files.txt"

// Ledger is a durable, monotonic set of processed filenames. Entries are
// only ever added. The full set is rewritten, sorted and one name per
// line, on every mutation.
type Ledger struct {
	names map[string]bool
	path  string
	mu    sync.RWMutex
}

// Open loads the ledger sidecar at path, or starts empty if the file does
// not exist. An unreadable ledger is a fatal initialization error.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path:  path,
		names: make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger file unreadable at %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			l.names[name] = true
		}
	}
	return l, nil
}

// OpenInDir loads the ledger from its default location inside the staging
// directory.
func OpenInDir(stagingDir string) (*Ledger, error) {
	return Open(filepath.Join(stagingDir, DefaultFilename))
}

// IsProcessed reports whether name has already been routed.
func (l *Ledger) IsProcessed(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.names[name]
}

// MarkProcessed durably adds name to the set. Idempotent: marking a name
// twice leaves exactly one occurrence.
func (l *Ledger) MarkProcessed(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.names[name] {
		return nil
	}
	l.names[name] = true
	if err := l.save(); err != nil {
		// Roll back the in-memory set so memory and disk stay consistent.
		delete(l.names, name)
		return err
	}
	return nil
}

// Names returns the processed filenames in sorted order.
func (l *Ledger) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sortedNames()
}

// Len returns the number of processed filenames.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.names)
}

func (l *Ledger) sortedNames() []string {
	names := make([]string, 0, len(l.names))
	for name := range l.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// save rewrites the whole set via a temp file and rename so a crash
// mid-write cannot leave a half-written ledger.
func (l *Ledger) save() error {
	var sb strings.Builder
	for _, name := range l.sortedNames() {
		sb.WriteString(name)
		sb.WriteString("\n")
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}
