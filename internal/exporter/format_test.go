package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{" XLSX ", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Filename(t *testing.T) {
	now := testutil.Date("2025-01-05")
	assert.Equal(t, "observatorio_teresopolis_20250105.csv", FormatCSV.Filename(now))
	assert.Equal(t, "observatorio_teresopolis_20250105.xlsx", FormatXLSX.Filename(now))
}

func TestFormat_ContentType(t *testing.T) {
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}
