// Package pipeline routes staged clinical data files through validation to
// exactly one terminal state: the archive, the error store, or a skip.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/thiri-win/helix/internal/model"
	"github.com/thiri-win/helix/internal/service"
	"github.com/thiri-win/helix/internal/validate"
)

// summaryLimit bounds how many violations make it into an error report
// summary before the remainder is collapsed into a count.
const summaryLimit = 3

// Router decides the terminal state of a staged file and performs the move.
// All collaborators are injected; the router itself holds no global state.
type Router struct {
	store    service.FileStore
	ledger   service.Ledger
	reporter service.ErrorReporter
	history  service.HistoryStore
	progress service.ProgressSink
	now      func() time.Time
}

// NewRouter creates a router. history and progress may be nil.
func NewRouter(store service.FileStore, ldg service.Ledger, reporter service.ErrorReporter) *Router {
	return &Router{
		store:    store,
		ledger:   ldg,
		reporter: reporter,
		now:      time.Now,
	}
}

// WithHistory attaches a routing-history store.
func (r *Router) WithHistory(history service.HistoryStore) *Router {
	r.history = history
	return r
}

// WithProgress attaches a progress sink.
func (r *Router) WithProgress(sink service.ProgressSink) *Router {
	r.progress = sink
	return r
}

// WithClock overrides the router's clock. Intended for tests.
func (r *Router) WithClock(now func() time.Time) *Router {
	r.now = now
	return r
}

// Route validates the staged file called name and moves it to its terminal
// state. Validation problems become verdict data and a routing outcome,
// never an error; the only error returned is context cancellation.
func (r *Router) Route(ctx context.Context, name string) (model.RouteOutcome, error) {
	if err := ctx.Err(); err != nil {
		return model.RouteOutcome{}, err
	}

	outcome := model.RouteOutcome{Filename: name, RoutedAt: r.now()}

	// The ledger gates everything: already-routed files get no I/O and no
	// report entry.
	if r.ledger.IsProcessed(name) {
		outcome.Status = model.StatusSkipped
		r.emit(model.StageRoute, model.SeverityWarning, name, "Skipping: already processed")
		return r.finish(ctx, outcome), nil
	}

	if !validate.MatchesFilename(name) {
		r.emit(model.StageFilename, model.SeverityError, name, "Invalid filename pattern")
		return r.reject(ctx, outcome, 1, "Invalid filename pattern"), nil
	}
	r.emit(model.StageFilename, model.SeveritySuccess, name, "Filename pattern valid")

	verdict := validate.ValidateFile(r.store.StagingPath(name))
	if err := ctx.Err(); err != nil {
		return model.RouteOutcome{}, err
	}
	outcome.RecordCount = verdict.ValidRecordCount
	outcome.ViolationCount = len(verdict.Violations)

	if !verdict.IsValid {
		r.emit(model.StageContent, model.SeverityError, name,
			fmt.Sprintf("Rejected (%d errors)", len(verdict.Violations)))
		return r.reject(ctx, outcome, len(verdict.Violations), SummarizeViolations(verdict.Violations)), nil
	}
	r.emit(model.StageContent, model.SeveritySuccess, name,
		fmt.Sprintf("Content valid (%d records)", verdict.ValidRecordCount))

	archiveName := r.archiveName(name)
	if err := r.store.Archive(name, archiveName); err != nil {
		return r.fail(ctx, outcome, fmt.Sprintf("Archival failed: %v", err)), nil
	}
	if err := r.ledger.MarkProcessed(name); err != nil {
		// The file is archived; losing the ledger entry only risks a
		// redundant reprocess attempt that the archive collision will stop.
		slog.Error("Failed to update ledger", "file", name, "error", err)
	}

	outcome.Status = model.StatusArchived
	outcome.ArchiveName = archiveName
	r.emit(model.StageRoute, model.SeveritySuccess, name,
		fmt.Sprintf("Archived as: %s (%d records)", archiveName, verdict.ValidRecordCount))
	return r.finish(ctx, outcome), nil
}

// ValidateOnly runs the filename and content checks without moving files,
// mutating the ledger, or reporting errors. The second return is true when
// the file was skipped because it is already in the ledger.
func (r *Router) ValidateOnly(ctx context.Context, name string) (model.Verdict, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.Verdict{}, false, err
	}

	if r.ledger.IsProcessed(name) {
		r.emit(model.StageRoute, model.SeverityWarning, name, "Skipping: already processed")
		return model.Verdict{}, true, nil
	}

	if !validate.MatchesFilename(name) {
		r.emit(model.StageFilename, model.SeverityError, name, "Invalid filename pattern")
		return model.InvalidVerdict([]string{"Invalid filename pattern"}, 0), false, nil
	}

	verdict := validate.ValidateFile(r.store.StagingPath(name))
	if verdict.IsValid {
		r.emit(model.StageContent, model.SeveritySuccess, name,
			fmt.Sprintf("VALID (%d records)", verdict.ValidRecordCount))
	} else {
		r.emit(model.StageContent, model.SeverityError, name,
			fmt.Sprintf("INVALID (%d errors)", len(verdict.Violations)))
	}
	return verdict, false, nil
}

// reject quarantines the file and writes one error report entry.
func (r *Router) reject(ctx context.Context, outcome model.RouteOutcome, violations int, summary string) model.RouteOutcome {
	if err := r.store.Quarantine(outcome.Filename); err != nil {
		return r.fail(ctx, outcome, fmt.Sprintf("Quarantine failed: %v", err))
	}
	outcome.Status = model.StatusRejected
	outcome.ViolationCount = violations
	outcome.ReportID = r.reporter.Report(ctx, outcome.Filename, summary)
	r.emit(model.StageReport, model.SeverityWarning, outcome.Filename,
		fmt.Sprintf("Error logged (GUID: %s)", outcome.ReportID))
	return r.finish(ctx, outcome)
}

// fail reports a move failure and discards any leftover staged copy so no
// half-moved state survives the run.
func (r *Router) fail(ctx context.Context, outcome model.RouteOutcome, summary string) model.RouteOutcome {
	outcome.Status = model.StatusFailed
	outcome.ReportID = r.reporter.Report(ctx, outcome.Filename, summary)
	if err := r.store.Discard(outcome.Filename); err != nil {
		slog.Error("Failed to discard staged file", "file", outcome.Filename, "error", err)
	}
	r.emit(model.StageRoute, model.SeverityError, outcome.Filename, summary)
	return r.finish(ctx, outcome)
}

func (r *Router) finish(ctx context.Context, outcome model.RouteOutcome) model.RouteOutcome {
	if r.history != nil {
		if err := r.history.RecordOutcome(ctx, outcome); err != nil {
			slog.Error("Failed to record routing history", "file", outcome.Filename, "error", err)
		}
	}
	return outcome
}

func (r *Router) archiveName(name string) string {
	base := name
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".csv") {
		base = name[:len(name)-len(ext)]
	}
	return fmt.Sprintf("%s_%s.CSV", base, r.now().Format("20060102"))
}

func (r *Router) emit(stage model.Stage, severity model.Severity, name, message string) {
	r.progress.Emit(model.ProgressEvent{
		Stage:    stage,
		Severity: severity,
		Filename: name,
		Message:  message,
	})
}

// SummarizeViolations builds the bounded human-readable summary for an
// error report entry: the first few violations joined with " | ", plus a
// count of how many were elided.
func SummarizeViolations(violations []string) string {
	if len(violations) <= summaryLimit {
		return strings.Join(violations, " | ")
	}
	return fmt.Sprintf("%s ... and %d more",
		strings.Join(violations[:summaryLimit], " | "), len(violations)-summaryLimit)
}
