// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/thiri-win/helix/internal/model"
)

// Ledger tracks which files have already been routed to a terminal state.
// Membership is monotonic: names are only ever added.
type Ledger interface {
	IsProcessed(name string) bool
	MarkProcessed(name string) error
	Names() []string
}

// ErrorReporter produces one durable, identifier-tagged log entry per
// rejected or failed file. Report is total: it never fails from the
// caller's point of view and always returns a usable identifier.
type ErrorReporter interface {
	Report(ctx context.Context, filename, summary string) string
}

// IdentifierOrigin says where a tracking identifier came from.
type IdentifierOrigin string

// Identifier origins.
const (
	OriginAPI           IdentifierOrigin = "API"
	OriginLocalFallback IdentifierOrigin = "Local Fallback"
)

// IdentifierSource produces unique tracking strings for log entries.
type IdentifierSource interface {
	Generate(ctx context.Context) (id string, origin IdentifierOrigin, err error)
}

// FileSource lists and fetches candidate files from a transfer endpoint.
type FileSource interface {
	List(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, name, localPath string) error
	Close() error
}

// FileStore is the storage-move primitive the router uses to place files
// into their terminal locations.
type FileStore interface {
	// StagingPath returns the local path a fetched file is staged at.
	StagingPath(name string) string
	// Archive moves a staged file into the archive under archiveName.
	Archive(name, archiveName string) error
	// Quarantine moves a staged file into the error store unchanged.
	Quarantine(name string) error
	// Discard removes a staged file, ignoring its absence.
	Discard(name string) error
}

// HistoryStore records every routing outcome for later audit queries.
type HistoryStore interface {
	RecordOutcome(ctx context.Context, outcome model.RouteOutcome) error
	ListOutcomes(ctx context.Context, filter HistoryFilter) ([]model.HistoryEntry, error)
	Migrate(ctx context.Context) error
	Close() error
}

// HistoryFilter defines filtering options for history queries.
type HistoryFilter struct {
	Since  *time.Time
	Status model.RouteStatus
	Limit  int
}

// ProgressSink receives structured progress events from the pipeline.
// A nil sink is valid and discards events.
type ProgressSink func(event model.ProgressEvent)

// Emit sends an event to the sink if one is attached.
func (s ProgressSink) Emit(event model.ProgressEvent) {
	if s != nil {
		s(event)
	}
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
