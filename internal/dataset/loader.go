package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fmaignacio/observatorio-tere/internal/config"
	apperrors "github.com/fmaignacio/observatorio-tere/internal/errors"
	"github.com/fmaignacio/observatorio-tere/internal/infrastructure"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

var (
	// ErrNotFound is returned when none of the candidate dataset files exist
	ErrNotFound = errors.New("dataset not found")

	// ErrMissingColumns is returned when the header lacks a required column
	ErrMissingColumns = errors.New("dataset is missing required columns")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source produces a fresh table on every call
type Source interface {
	Load(ctx context.Context) (*Table, LoadReport, error)
}

// LoadReport describes one load for data-quality monitoring
type LoadReport struct {
	Source             string        `json:"source"`
	RowsRead           int           `json:"rows_read"`
	RowsKept           int           `json:"rows_kept"`
	DroppedInvalidDate int           `json:"dropped_invalid_date"`
	DroppedTooOld      int           `json:"dropped_too_old"`
	Duration           time.Duration `json:"duration"`
}

// Dropped returns the number of rows excluded at load time
func (r LoadReport) Dropped() int {
	return r.DroppedInvalidDate + r.DroppedTooOld
}

// Loader reads the source table from the first candidate path that exists
type Loader struct {
	paths   []string
	minDate time.Time
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
}

// LoaderOption customizes a Loader
type LoaderOption func(*Loader)

// WithMetrics records load outcomes on the given instruments
func WithMetrics(m *infrastructure.BusinessMetrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// WithPaths overrides the candidate paths from configuration
func WithPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.paths = paths }
}

// NewLoader creates a loader for the configured dataset location
func NewLoader(cfg config.DatasetConfig, logger *slog.Logger, opts ...LoaderOption) (*Loader, error) {
	minDate, err := cfg.MinDateTime()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid dataset configuration", err)
	}

	l := &Loader{
		paths:   cfg.CandidatePaths(),
		minDate: minDate,
		logger:  logger.With(slog.String("component", "dataset_loader")),
		tracer:  otel.Tracer(infrastructure.MeterName),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Paths returns the candidate paths in lookup order
func (l *Loader) Paths() []string {
	return append([]string(nil), l.paths...)
}

// Load reads the primary path, falling back to the next candidates.
// When none exists the error wraps ErrNotFound.
func (l *Loader) Load(ctx context.Context) (*Table, LoadReport, error) {
	ctx, span := l.tracer.Start(ctx, "dataset.Load")
	defer span.End()

	for _, path := range l.paths {
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.DebugContext(ctx, "dataset candidate missing", slog.String("path", path))
			continue
		}
		if err != nil {
			appErr := apperrors.NewStorageError("failed to open dataset", err).WithContext("path", path)
			infrastructure.RecordError(ctx, appErr)
			return nil, LoadReport{Source: path}, appErr
		}

		table, report, err := l.LoadFrom(ctx, f, path)
		_ = f.Close()
		return table, report, err
	}

	err := apperrors.NewNotFoundError("dataset", ErrNotFound).WithContext("paths", l.Paths())
	infrastructure.RecordError(ctx, err)
	infrastructure.RecordDatasetLoad(ctx, l.metrics, "", 0, 0, 0, err)
	l.logger.ErrorContext(ctx, "no dataset file found", slog.Any("paths", l.paths))
	return nil, LoadReport{}, err
}

// LoadFrom parses a CSV stream. source labels the stream in reports and logs.
func (l *Loader) LoadFrom(ctx context.Context, r io.Reader, source string) (*Table, LoadReport, error) {
	start := time.Now()
	report := LoadReport{Source: source}

	table, err := l.parse(r, &report)
	report.Duration = time.Since(start)

	infrastructure.RecordDatasetLoad(ctx, l.metrics, source, report.RowsKept, report.Dropped(), report.Duration, err)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("dataset.source", source),
		attribute.Int("dataset.rows_read", report.RowsRead),
		attribute.Int("dataset.rows_kept", report.RowsKept),
	)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		l.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, report, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", source),
		slog.Int("rows_read", report.RowsRead),
		slog.Int("rows_kept", report.RowsKept),
		slog.Duration("duration", report.Duration))

	if report.Dropped() > 0 {
		l.logger.WarnContext(ctx, "dataset rows dropped",
			slog.String("source", source),
			slog.Int("invalid_date", report.DroppedInvalidDate),
			slog.Int("before_min_date", report.DroppedTooOld),
			slog.String("min_date", l.minDate.Format(domain.DateLayout)))
	}

	return table, report, nil
}

func (l *Loader) parse(r io.Reader, report *LoadReport) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewConfigError("dataset has no header row", ErrMissingColumns).
			WithContext("missing", domain.Columns)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read dataset header", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var events []domain.BillEvent
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read dataset row", err).WithContext("row", row)
		}
		report.RowsRead++

		date, ok := ParseDate(cols.get(record, domain.ColumnDate))
		if !ok {
			report.DroppedInvalidDate++
			continue
		}
		if date.Before(l.minDate) {
			report.DroppedTooOld++
			continue
		}

		events = append(events, domain.NewBillEvent(
			row,
			strings.TrimSpace(cols.get(record, domain.ColumnBill)),
			strings.TrimSpace(cols.get(record, domain.ColumnAuthor)),
			strings.TrimSpace(cols.get(record, domain.ColumnStatus)),
			date,
			cols.get(record, domain.ColumnAttendees),
			cols.get(record, domain.ColumnSource),
		))
	}

	report.RowsKept = len(events)
	return &Table{rows: events}, nil
}

// columnIndex maps required column names to their header position
type columnIndex map[string]int

func (c columnIndex) get(record []string, column string) string {
	i := c[column]
	if i >= len(record) {
		return ""
	}
	return record[i]
}

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(domain.Columns))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimLeft(name, "\u200B\u200C\u200D\u2060\uFEFF"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, required := range domain.Columns {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("dataset is missing required columns: %s", strings.Join(missing, ", ")),
			ErrMissingColumns,
		).WithContext("missing", missing)
	}
	return cols, nil
}
