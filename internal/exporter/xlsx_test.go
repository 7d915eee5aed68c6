package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

func TestXLSXWriter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Export(&buf, testutil.SampleEvents()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, domain.Columns, rows[0])
	assert.Equal(t, []string{"3/2025", "Carlos Mendes", "Aprovado", "2024-04-15", "Vereadores presentes", "Ata"}, rows[5])
}

func TestXLSXWriter_ExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Export(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
