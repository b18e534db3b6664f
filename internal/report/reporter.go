// Package report writes the durable error report log: one timestamped,
// identifier-tagged entry per rejected or failed file.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/thiri-win/helix/internal/service"
)

// LogFilename is the error report log colocated with the error store.
const LogFilename = "error_report.log"

// Reporter appends structured error entries tagged with identifiers from
// an IdentifierSource. Report never fails from the caller's point of view:
// identifier acquisition falls back locally and write failures are logged.
type Reporter struct {
	ids  service.IdentifierSource
	now  func() time.Time
	path string
	mu   sync.Mutex
}

// New creates a reporter writing to the error report log in errorDir.
func New(errorDir string, ids service.IdentifierSource) *Reporter {
	return &Reporter{
		path: filepath.Join(errorDir, LogFilename),
		ids:  ids,
		now:  time.Now,
	}
}

// WithClock overrides the reporter's clock. Intended for tests.
func (r *Reporter) WithClock(now func() time.Time) *Reporter {
	r.now = now
	return r
}

// Report appends one entry associating an identifier, the filename, and
// the diagnostic summary, and returns the identifier.
func (r *Reporter) Report(ctx context.Context, filename, summary string) string {
	id, origin, err := r.ids.Generate(ctx)
	if err != nil {
		// Sources are composed to be total; this is a wiring mistake, not
		// a runtime condition the pipeline can act on.
		slog.Error("Identifier source returned error", "error", err)
		origin = service.OriginLocalFallback
	}

	entry := fmt.Sprintf("[%s] GUID: %s | Source: %s | File: %s | Error: %s\n",
		r.now().Format("2006-01-02 15:04:05"), id, origin, filename, summary)

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		slog.Error("Failed to open error report log", "path", r.path, "error", err)
		return id
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteString(entry); err != nil {
		slog.Error("Failed to write error report log", "path", r.path, "error", err)
	}
	return id
}
