package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmaignacio/observatorio-tere/internal/config"
	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

func TestCSVWriter_Export(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		wantBOM bool
	}{
		{name: "plain", options: WriteOptions{}, wantBOM: false},
		{name: "with BOM", options: WriteOptions{BOMPrefix: true}, wantBOM: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter(tt.options).Export(&buf, testutil.ExampleEvents()))

			data := buf.Bytes()
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(data, utf8BOM))

			records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 4)
			assert.Equal(t, domain.Columns, records[0])
			assert.Equal(t, []string{"1/2025", "Ana", "Aprovado (Votação Simbólica)", "2024-03-01", "Vereadores presentes", "Ata"}, records[2])
		})
	}
}

func TestCSVWriter_ExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(WriteOptions{}).Export(&buf, nil))
	assert.Equal(t, "PL,Autor,Status,Data Sessão,Presentes,Fonte\n", buf.String())
}

func TestCSVWriter_RoundTripThroughLoader(t *testing.T) {
	events := testutil.SampleEvents()

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(WriteOptions{BOMPrefix: true}).Export(&buf, events))

	logger, _ := testutil.NewTestLogger(t)
	loader, err := dataset.NewLoader(config.Default().Dataset, logger)
	require.NoError(t, err)

	table, report, err := loader.LoadFrom(context.Background(), &buf, "export.csv")
	require.NoError(t, err)
	assert.Equal(t, len(events), table.Len())
	assert.Equal(t, 0, report.Dropped())

	want := make([]string, 0, len(events))
	seen := map[string]bool{}
	for _, e := range events {
		if !seen[e.BillID] {
			seen[e.BillID] = true
			want = append(want, e.BillID)
		}
	}
	sort.Strings(want)
	assert.Equal(t, want, table.Bills())

	for i, e := range table.Rows() {
		assert.Equal(t, events[i].SessionDate, e.SessionDate)
		assert.Equal(t, events[i].Status, e.Status)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", FormatCSV.Filename(testutil.Date("2025-03-14")))

	require.NoError(t, WriteFile(path, NewCSVWriter(WriteOptions{}), testutil.ExampleEvents()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2/2025,Bia,Rejeitado,2024-02-01")
	assert.Equal(t, "observatorio_teresopolis_20250314.csv", filepath.Base(path))
}

func TestNew(t *testing.T) {
	exp, err := New(FormatCSV, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, exp.Format())

	exp, err = New(FormatXLSX, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, exp.Format())

	_, err = New("pdf", WriteOptions{})
	assert.Error(t, err)
}
