package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Exporter serializes a view of bill events
type Exporter interface {
	Export(w io.Writer, rows []domain.BillEvent) error
	Format() Format
}

// New returns the exporter for format
func New(format Format, opts WriteOptions) (Exporter, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(opts), nil
	case FormatXLSX:
		return NewXLSXWriter(), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter writes events with the source column set, dates as YYYY-MM-DD
type CSVWriter struct {
	options WriteOptions
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(options WriteOptions) *CSVWriter {
	return &CSVWriter{options: options}
}

// Format implements Exporter
func (w *CSVWriter) Format() Format { return FormatCSV }

// Export writes the header and one record per event in the given order
func (w *CSVWriter) Export(out io.Writer, rows []domain.BillEvent) error {
	if w.options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(domain.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, e := range rows {
		if err := writer.Write(e.Record()); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile exports rows to path with exporter, creating parent directories
func WriteFile(path string, exporter Exporter, rows []domain.BillEvent) error {
	slog.Info("Writing export file",
		slog.String("path", path),
		slog.String("format", string(exporter.Format())),
		slog.Int("record_count", len(rows)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := exporter.Export(file, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
