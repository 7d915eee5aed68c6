package exporter

import (
	"fmt"
	"strings"
	"time"
)

// FilePrefix is the stem of every exported file name
const FilePrefix = "observatorio_teresopolis_"

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format name; the empty name means CSV
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the media type served for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the export file name stamped with the date of now,
// e.g. observatorio_teresopolis_20250314.csv
func (f Format) Filename(now time.Time) string {
	return FilePrefix + now.Format("20060102") + "." + string(f)
}
