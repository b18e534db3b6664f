package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{
			name:     "valid uppercase",
			filename: "CLINICALDATA_20240101120000.CSV",
			want:     true,
		},
		{
			name:     "valid lowercase extension",
			filename: "CLINICALDATA_20231225143000.csv",
			want:     true,
		},
		{
			name:     "valid lowercase prefix",
			filename: "clinicaldata_20240115123045.csv",
			want:     true,
		},
		{
			name:     "timestamp too short",
			filename: "CLINICALDATA_20240101.CSV",
			want:     false,
		},
		{
			name:     "timestamp too long",
			filename: "CLINICALDATA_202401011200001.CSV",
			want:     false,
		},
		{
			name:     "wrong prefix",
			filename: "DATA_20240101120000.CSV",
			want:     false,
		},
		{
			name:     "wrong extension",
			filename: "CLINICALDATA_20240101120000.TXT",
			want:     false,
		},
		{
			name:     "separators in timestamp",
			filename: "CLINICALDATA_2024-01-01-120000.CSV",
			want:     false,
		},
		{
			name:     "no extension",
			filename: "CLINICALDATA_20240101120000",
			want:     false,
		},
		{
			name:     "no prefix",
			filename: "20240101120000.CSV",
			want:     false,
		},
		{
			name:     "no timestamp",
			filename: "CLINICALDATA_.CSV",
			want:     false,
		},
		{
			name:     "leading characters",
			filename: "xCLINICALDATA_20240101120000.CSV",
			want:     false,
		},
		{
			name:     "trailing characters",
			filename: "CLINICALDATA_20240101120000.CSVx",
			want:     false,
		},
		{
			name:     "empty string",
			filename: "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesFilename(tt.filename))
		})
	}
}
