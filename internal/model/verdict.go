package model

import "time"

// Verdict is the result of validating one file's content.
type Verdict struct {
	Violations       []string
	ValidRecordCount int
	IsValid          bool
}

// ValidVerdict returns a passing verdict for a file with the given number
// of valid records.
func ValidVerdict(recordCount int) Verdict {
	return Verdict{IsValid: true, ValidRecordCount: recordCount}
}

// InvalidVerdict returns a failing verdict carrying the accumulated
// violations and the count of rows that still validated cleanly.
func InvalidVerdict(violations []string, recordCount int) Verdict {
	return Verdict{Violations: violations, ValidRecordCount: recordCount}
}

// RouteStatus is the terminal state a file reached during routing.
type RouteStatus string

// Routing outcomes.
const (
	StatusArchived RouteStatus = "archived"
	StatusRejected RouteStatus = "rejected"
	StatusSkipped  RouteStatus = "skipped"
	StatusFailed   RouteStatus = "failed"
)

// RouteOutcome describes what happened to a single file.
type RouteOutcome struct {
	RoutedAt       time.Time
	Filename       string
	Status         RouteStatus
	ArchiveName    string // set when Status == StatusArchived
	ReportID       string // error report identifier, set for rejected/failed files
	RecordCount    int
	ViolationCount int
}

// HistoryEntry is one row of the routing-history store.
type HistoryEntry struct {
	RoutedAt       time.Time
	Filename       string
	Status         RouteStatus
	ReportID       string
	RecordCount    int
	ViolationCount int
}
