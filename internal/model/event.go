package model

// Stage identifies where in the pipeline a progress event originated.
type Stage string

// Pipeline stages.
const (
	StageFetch    Stage = "fetch"
	StageFilename Stage = "filename"
	StageContent  Stage = "content"
	StageRoute    Stage = "route"
	StageReport   Stage = "report"
)

// Severity classifies a progress event for display purposes.
type Severity string

// Event severities.
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ProgressEvent is a structured notification emitted while a file moves
// through the pipeline. The core emits events; it has no opinion about how
// they are rendered.
type ProgressEvent struct {
	Stage    Stage
	Severity Severity
	Filename string
	Message  string
}
