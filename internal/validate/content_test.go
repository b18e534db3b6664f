package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "PatientID,TrialCode,DrugCode,Dosage_mg,StartDate,EndDate,Outcome,SideEffects,Analyst"

func TestValidateContentValidFile(t *testing.T) {
	content := header + "\n" +
		"PT001,TRIAL001,DRUG001,100,2024-01-01,2024-06-01,Improved,None,Analyst1\n" +
		"PT002,TRIAL001,DRUG001,150,2024-01-02,2024-06-02,No Change,Headache,Analyst2\n"

	verdict := ValidateContent(strings.NewReader(content))

	assert.True(t, verdict.IsValid)
	assert.Empty(t, verdict.Violations)
	assert.Equal(t, 2, verdict.ValidRecordCount)
}

func TestValidateContentHeaderOnly(t *testing.T) {
	verdict := ValidateContent(strings.NewReader(header + "\n"))

	assert.True(t, verdict.IsValid)
	assert.Equal(t, 0, verdict.ValidRecordCount)
}

func TestValidateContentEmptyFile(t *testing.T) {
	verdict := ValidateContent(strings.NewReader(""))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "File is empty", verdict.Violations[0])
	assert.Equal(t, 0, verdict.ValidRecordCount)
}

func TestValidateContentHeaderMismatchStopsScan(t *testing.T) {
	// A renamed header field invalidates the file; the bad rows below must
	// not produce row-level violations.
	content := "PatientID,WrongField,DrugCode,Dosage_mg,StartDate,EndDate,Outcome,SideEffects,Analyst\n" +
		"PT001,TRIAL001,DRUG001,bogus,2024-01-01,2024-06-01,Nope,None,Analyst1\n"

	verdict := ValidateContent(strings.NewReader(content))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Contains(t, verdict.Violations[0], "Invalid header")
	assert.Equal(t, 0, verdict.ValidRecordCount)
}

func TestValidateContentFieldCount(t *testing.T) {
	content := header + "\n" +
		"PT001,TRIAL001,DRUG001,100,2024-01-01,2024-06-01,Improved,None\n"

	verdict := ValidateContent(strings.NewReader(content))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "Row 2: Expected 9 fields, got 8", verdict.Violations[0])
}

func TestValidateContentMissingFields(t *testing.T) {
	content := header + "\n" +
		"PT001,TRIAL001,DRUG001,100,2024-01-01,2024-06-01,Improved,,Analyst1\n"

	verdict := ValidateContent(strings.NewReader(content))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "Row 2: Missing required fields", verdict.Violations[0])
	assert.Equal(t, 0, verdict.ValidRecordCount)
}

func TestValidateContentZeroDosage(t *testing.T) {
	content := header + "\n" +
		"PT001,TRIAL001,DRUG001,0,2024-01-01,2024-06-01,Improved,None,Analyst1\n"

	verdict := ValidateContent(strings.NewReader(content))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "Row 2: Dosage must be positive integer, got '0'", verdict.Violations[0])
	assert.Equal(t, 0, verdict.ValidRecordCount)
}

func TestValidateContentMultipleViolationsOneRow(t *testing.T) {
	content := header + "\n" +
		"P1,T1,D1,-5,2024-01-10,2024-01-01,Maybe,None,A\n"

	verdict := ValidateContent(strings.NewReader(content))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t,
		"Row 2: Dosage must be positive integer, got '-5'; "+
			"EndDate (2024-01-01) before StartDate (2024-01-10); "+
			"Invalid outcome 'Maybe'. Must be one of: Improved, No Change, Worsened",
		verdict.Violations[0])
}

func TestValidateContentDuplicateDetection(t *testing.T) {
	content := header + "\n" +
		"PT001,TRIAL001,DRUG001,100,2024-01-01,2024-06-01,Improved,None,Analyst1\n" +
		"PT001,TRIAL001,DRUG001,200,2024-01-01,2024-07-01,Worsened,Nausea,Analyst2\n"

	verdict := ValidateContent(strings.NewReader(content))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "Row 3: Duplicate record", verdict.Violations[0])
	// Only the first occurrence counts as valid.
	assert.Equal(t, 1, verdict.ValidRecordCount)
}

func TestValidateContentMalformedRowStillDefinesDuplicateKey(t *testing.T) {
	// The first row has violations but still seeds the seen-set; the
	// second row sharing its key is flagged as a duplicate.
	content := header + "\n" +
		"PT001,TRIAL001,DRUG001,bogus,2024-01-01,2024-06-01,Improved,None,Analyst1\n" +
		"PT001,TRIAL001,DRUG001,100,2024-01-01,2024-06-01,Improved,None,Analyst1\n"

	verdict := ValidateContent(strings.NewReader(content))

	require.Len(t, verdict.Violations, 2)
	assert.Equal(t, "Row 2: Non-numeric dosage: 'bogus'", verdict.Violations[0])
	assert.Equal(t, "Row 3: Duplicate record", verdict.Violations[1])
	assert.Equal(t, 0, verdict.ValidRecordCount)
}

func TestValidateContentMixedRows(t *testing.T) {
	content := header + "\n" +
		"PT001,TRIAL001,DRUG001,100,2024-01-01,2024-06-01,Improved,None,Analyst1\n" +
		"PT002,TRIAL001,DRUG001,0,2024-01-02,2024-06-02,No Change,None,Analyst1\n" +
		"PT003,TRIAL001,DRUG001,50,2024-01-03,2024-06-03,Worsened,Fatigue,Analyst2\n"

	verdict := ValidateContent(strings.NewReader(content))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Contains(t, verdict.Violations[0], "Row 3:")
	assert.Equal(t, 2, verdict.ValidRecordCount)
}

func TestValidateContentNonUTF8(t *testing.T) {
	verdict := ValidateContent(bytes.NewReader([]byte{0xff, 0xfe, 0x41, 0x42}))

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "File is not valid UTF-8 encoded CSV", verdict.Violations[0])
	assert.Equal(t, 0, verdict.ValidRecordCount)
}

func TestValidateFile(t *testing.T) {
	t.Run("valid file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CLINICALDATA_20240101120000.CSV")
		content := header + "\nPT001,TRIAL001,DRUG001,100,2024-01-01,2024-06-01,Improved,None,Analyst1\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		verdict := ValidateFile(path)
		assert.True(t, verdict.IsValid)
		assert.Equal(t, 1, verdict.ValidRecordCount)
	})

	t.Run("missing file is a verdict, not an error", func(t *testing.T) {
		verdict := ValidateFile(filepath.Join(t.TempDir(), "nope.CSV"))
		assert.False(t, verdict.IsValid)
		require.Len(t, verdict.Violations, 1)
		assert.Contains(t, verdict.Violations[0], "File read error")
	})
}
