package guid

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/thiri-win/helix/internal/service"
)

// FailureLogFilename is the API-failure log colocated with the error store.
const FailureLogFilename = "api_failures.log"

// FailureLog appends API failure entries for monitoring. Writes are
// serialized; logging failures are reported via slog but never propagated.
type FailureLog struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewFailureLog creates a failure log writing to path.
func NewFailureLog(path string) *FailureLog {
	return &FailureLog{path: path, now: time.Now}
}

// Log appends one timestamped failure entry.
func (f *FailureLog) Log(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry := fmt.Sprintf("[%s] API Failure: %s\n", f.now().Format("2006-01-02 15:04:05"), message)
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		slog.Error("Failed to open API failure log", "path", f.path, "error", err)
		return
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteString(entry); err != nil {
		slog.Error("Failed to write API failure log", "path", f.path, "error", err)
	}
}

// FallbackSource composes a primary identifier source with a fallback so
// that Generate is total: when the primary fails, the failure is logged
// and the fallback identifier is returned instead.
type FallbackSource struct {
	primary  service.IdentifierSource
	fallback service.IdentifierSource
	failures *FailureLog
}

// NewFallbackSource decorates primary with fallback. failures may be nil.
func NewFallbackSource(primary, fallback service.IdentifierSource, failures *FailureLog) *FallbackSource {
	return &FallbackSource{primary: primary, fallback: fallback, failures: failures}
}

// Generate returns an identifier from the primary source, or from the
// fallback when the primary fails. It never returns an error.
func (s *FallbackSource) Generate(ctx context.Context) (string, service.IdentifierOrigin, error) {
	id, origin, err := s.primary.Generate(ctx)
	if err == nil {
		return id, origin, nil
	}

	if s.failures != nil {
		s.failures.Log(err.Error())
	}
	slog.Warn("Identifier source failed, using fallback", "error", err)

	id, origin, _ = s.fallback.Generate(ctx)
	if s.failures != nil {
		s.failures.Log(fmt.Sprintf("Using fallback GUID: %s", id))
	}
	return id, origin, nil
}
