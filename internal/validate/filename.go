// Package validate implements the clinical data file contract: the
// filename pattern, the per-record field rules, and whole-file content
// validation.
package validate

import "regexp"

// filenamePattern matches CLINICALDATA_<14-digit timestamp>.CSV,
// case-insensitively, anchored at both ends.
var filenamePattern = regexp.MustCompile(`(?i)^CLINICALDATA_\d{14}\.CSV$`)

// MatchesFilename reports whether name satisfies the required naming
// contract. Pure predicate; no side effects.
func MatchesFilename(name string) bool {
	return filenamePattern.MatchString(name)
}
