package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thiri-win/helix/internal/model"
)

const dateLayout = "2006-01-02"

// ValidOutcomes are the only accepted values for a record's Outcome field.
// Matching is exact and case-sensitive.
var ValidOutcomes = []string{"Improved", "No Change", "Worsened"}

// ValidateRecord checks one record's fields and returns zero or more
// violation messages. The check order is fixed: dosage, then dates, then
// outcome; it determines message ordering within a row.
func ValidateRecord(r model.Record) []string {
	var violations []string

	// Dosage must be a positive base-10 integer.
	if dosage, err := strconv.Atoi(r.DosageMg); err != nil {
		violations = append(violations, fmt.Sprintf("Non-numeric dosage: '%s'", r.DosageMg))
	} else if dosage <= 0 {
		violations = append(violations, fmt.Sprintf("Dosage must be positive integer, got '%s'", r.DosageMg))
	}

	// Both dates must parse; the ordering check only runs when they do.
	start, startErr := time.Parse(dateLayout, r.StartDate)
	end, endErr := time.Parse(dateLayout, r.EndDate)
	switch {
	case startErr != nil || endErr != nil:
		violations = append(violations, "Invalid date format (expected YYYY-MM-DD)")
	case end.Before(start):
		violations = append(violations, fmt.Sprintf("EndDate (%s) before StartDate (%s)", r.EndDate, r.StartDate))
	}

	if !isValidOutcome(r.Outcome) {
		violations = append(violations, fmt.Sprintf("Invalid outcome '%s'. Must be one of: %s",
			r.Outcome, strings.Join(ValidOutcomes, ", ")))
	}

	return violations
}

func isValidOutcome(outcome string) bool {
	for _, v := range ValidOutcomes {
		if outcome == v {
			return true
		}
	}
	return false
}
