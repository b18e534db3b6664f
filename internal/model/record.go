package model

import "fmt"

// FieldCount is the number of fields in a clinical trial record.
const FieldCount = 9

// Record represents a single clinical trial data row. All fields are kept
// as strings at the boundary; validation interprets them.
type Record struct {
	PatientID   string
	TrialCode   string
	DrugCode    string
	DosageMg    string
	StartDate   string
	EndDate     string
	Outcome     string
	SideEffects string
	Analyst     string
}

// RecordFromRow builds a Record from a raw CSV row. The caller must have
// already checked that the row has exactly FieldCount fields.
func RecordFromRow(row []string) Record {
	return Record{
		PatientID:   row[0],
		TrialCode:   row[1],
		DrugCode:    row[2],
		DosageMg:    row[3],
		StartDate:   row[4],
		EndDate:     row[5],
		Outcome:     row[6],
		SideEffects: row[7],
		Analyst:     row[8],
	}
}

// Fields returns the record's fields in schema order.
func (r Record) Fields() []string {
	return []string{
		r.PatientID, r.TrialCode, r.DrugCode, r.DosageMg,
		r.StartDate, r.EndDate, r.Outcome, r.SideEffects, r.Analyst,
	}
}

// HasEmptyField reports whether any field is the empty string.
func (r Record) HasEmptyField() bool {
	for _, f := range r.Fields() {
		if f == "" {
			return true
		}
	}
	return false
}

// Key returns the record's identity key used for duplicate detection
// within a file.
func (r Record) Key() string {
	return fmt.Sprintf("%s_%s_%s_%s", r.PatientID, r.TrialCode, r.DrugCode, r.StartDate)
}
