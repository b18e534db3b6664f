package validate

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/thiri-win/helix/internal/model"
)

// ExpectedHeader is the fixed 9-field schema, order-sensitive.
var ExpectedHeader = []string{
	"PatientID", "TrialCode", "DrugCode", "Dosage_mg",
	"StartDate", "EndDate", "Outcome", "SideEffects", "Analyst",
}

// ValidateFile validates the CSV file at path and returns a verdict.
// Unreadable files yield an invalid verdict, never an error.
func ValidateFile(path string) model.Verdict {
	f, err := os.Open(path)
	if err != nil {
		return model.InvalidVerdict([]string{fmt.Sprintf("File read error: %v", err)}, 0)
	}
	defer func() { _ = f.Close() }()
	return ValidateContent(f)
}

// ValidateContent validates CSV content read from r.
//
// The header is checked field-by-field against ExpectedHeader; a mismatch
// short-circuits the scan. Data rows are numbered from 2 (the header is
// row 1). A row with the wrong field count gets a single violation and no
// further checks; otherwise missing-field, record-level, and duplicate-key
// checks all run and a row can accumulate several violation messages,
// joined with "; " into one entry.
func ValidateContent(r io.Reader) model.Verdict {
	content, err := io.ReadAll(r)
	if err != nil {
		return model.InvalidVerdict([]string{fmt.Sprintf("File read error: %v", err)}, 0)
	}
	if !utf8.Valid(content) {
		return model.InvalidVerdict([]string{"File is not valid UTF-8 encoded CSV"}, 0)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return model.InvalidVerdict([]string{"File is empty"}, 0)
	}
	if err != nil {
		return model.InvalidVerdict([]string{fmt.Sprintf("File read error: %v", err)}, 0)
	}
	if !headerMatches(header) {
		violation := fmt.Sprintf("Invalid header. Expected %d fields: %s",
			len(ExpectedHeader), strings.Join(ExpectedHeader, ", "))
		return model.InvalidVerdict([]string{violation}, 0)
	}

	var violations []string
	validRecords := 0
	seen := make(map[string]bool)
	rowNum := 1 // header

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			violations = append(violations, fmt.Sprintf("Row %d: File read error: %v", rowNum, err))
			continue
		}

		if len(row) != model.FieldCount {
			violations = append(violations,
				fmt.Sprintf("Row %d: Expected %d fields, got %d", rowNum, model.FieldCount, len(row)))
			continue
		}

		record := model.RecordFromRow(row)

		var rowViolations []string
		if record.HasEmptyField() {
			rowViolations = append(rowViolations, "Missing required fields")
		}
		rowViolations = append(rowViolations, ValidateRecord(record)...)

		// The seen-set is updated even for rows with other violations, so
		// a malformed row still defines the key for later duplicates.
		key := record.Key()
		if seen[key] {
			rowViolations = append(rowViolations, "Duplicate record")
		} else {
			seen[key] = true
		}

		if len(rowViolations) > 0 {
			violations = append(violations,
				fmt.Sprintf("Row %d: %s", rowNum, strings.Join(rowViolations, "; ")))
		} else {
			validRecords++
		}
	}

	if len(violations) > 0 {
		return model.InvalidVerdict(violations, validRecords)
	}
	return model.ValidVerdict(validRecords)
}

func headerMatches(header []string) bool {
	if len(header) != len(ExpectedHeader) {
		return false
	}
	for i, field := range ExpectedHeader {
		if header[i] != field {
			return false
		}
	}
	return true
}
