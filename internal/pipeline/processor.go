package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/thiri-win/helix/internal/model"
	"github.com/thiri-win/helix/internal/service"
)

// RunSummary aggregates the results of one processing or validation run.
type RunSummary struct {
	Outcomes []model.RouteOutcome
	Archived int
	Rejected int
	Skipped  int
	Failed   int
}

// Processor drives complete runs: list candidate files on the source,
// fetch each into staging, and hand it to the router. One file is
// processed end-to-end before the next; there is no interleaving.
type Processor struct {
	source   service.FileSource
	router   *Router
	store    service.FileStore
	ledger   service.Ledger
	progress service.ProgressSink
}

// NewProcessor creates a processor over the given collaborators.
func NewProcessor(source service.FileSource, router *Router, store service.FileStore, ldg service.Ledger) *Processor {
	return &Processor{
		source: source,
		router: router,
		store:  store,
		ledger: ldg,
	}
}

// WithProgress attaches a progress sink for run-level events.
func (p *Processor) WithProgress(sink service.ProgressSink) *Processor {
	p.progress = sink
	return p
}

// ListCandidates returns the source's CSV files, sorted by name.
func (p *Processor) ListCandidates(ctx context.Context) ([]string, error) {
	names, err := p.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var csvs []string
	for _, name := range names {
		if strings.HasSuffix(strings.ToUpper(name), ".CSV") {
			csvs = append(csvs, name)
		}
	}
	sort.Strings(csvs)
	return csvs, nil
}

// Process fetches and routes each named file in order. Per-file validation
// problems become outcomes; only transport and cancellation errors abort
// the run.
func (p *Processor) Process(ctx context.Context, names []string) (RunSummary, error) {
	var summary RunSummary

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		// Check the ledger before spending a download on the file. The
		// router re-checks; both checks are cheap and idempotent.
		if p.ledger.IsProcessed(name) {
			p.emit(model.SeverityWarning, name, "Skipping: already processed")
			summary.add(model.RouteOutcome{Filename: name, Status: model.StatusSkipped})
			continue
		}

		if err := p.source.Fetch(ctx, name, p.store.StagingPath(name)); err != nil {
			return summary, fmt.Errorf("failed to fetch %s: %w", name, err)
		}
		p.emit(model.SeverityInfo, name, "Downloaded successfully")

		outcome, err := p.router.Route(ctx, name)
		if err != nil {
			return summary, err
		}
		summary.add(outcome)
	}

	return summary, nil
}

// ValidateOnly fetches each named file to a temporary staging name, runs
// the dry-run validation, and removes the temporary copy. Nothing is
// routed, no ledger entries are written, and no errors are reported.
func (p *Processor) ValidateOnly(ctx context.Context, names []string) (RunSummary, error) {
	var summary RunSummary

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if p.ledger.IsProcessed(name) {
			p.emit(model.SeverityWarning, name, "Skipping: already processed")
			summary.add(model.RouteOutcome{Filename: name, Status: model.StatusSkipped})
			continue
		}

		if err := p.source.Fetch(ctx, name, p.store.StagingPath(name)); err != nil {
			return summary, fmt.Errorf("failed to fetch %s: %w", name, err)
		}

		verdict, skipped, err := p.router.ValidateOnly(ctx, name)
		if discardErr := p.store.Discard(name); discardErr != nil {
			p.emit(model.SeverityWarning, name, discardErr.Error())
		}
		if err != nil {
			return summary, err
		}
		if skipped {
			summary.add(model.RouteOutcome{Filename: name, Status: model.StatusSkipped})
			continue
		}

		outcome := model.RouteOutcome{
			Filename:       name,
			RecordCount:    verdict.ValidRecordCount,
			ViolationCount: len(verdict.Violations),
		}
		if verdict.IsValid {
			outcome.Status = model.StatusArchived
			p.emit(model.SeveritySuccess, name, fmt.Sprintf("VALID: %s (%d records)", name, verdict.ValidRecordCount))
		} else {
			outcome.Status = model.StatusRejected
			p.emit(model.SeverityError, name, fmt.Sprintf("INVALID: %s (%d errors)", name, len(verdict.Violations)))
		}
		summary.add(outcome)
	}

	return summary, nil
}

func (p *Processor) emit(severity model.Severity, name, message string) {
	p.progress.Emit(model.ProgressEvent{
		Stage:    model.StageFetch,
		Severity: severity,
		Filename: name,
		Message:  message,
	})
}

// Merge folds another summary into this one.
func (s *RunSummary) Merge(other RunSummary) {
	for _, outcome := range other.Outcomes {
		s.add(outcome)
	}
}

func (s *RunSummary) add(outcome model.RouteOutcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	switch outcome.Status {
	case model.StatusArchived:
		s.Archived++
	case model.StatusRejected:
		s.Rejected++
	case model.StatusSkipped:
		s.Skipped++
	case model.StatusFailed:
		s.Failed++
	}
}
