package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fmaignacio/observatorio-tere/internal/analytics"
	"github.com/fmaignacio/observatorio-tere/internal/config"
	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/internal/exporter"
	"github.com/fmaignacio/observatorio-tere/internal/filter"
	"github.com/fmaignacio/observatorio-tere/internal/infrastructure"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// MessageDatasetReloaded is broadcast to subscribers after a manual reload
const MessageDatasetReloaded = "dataset_reloaded"

// DatasetProvider supplies the shared, read-only base table
type DatasetProvider interface {
	Get(ctx context.Context) (*dataset.Table, error)
	Reload(ctx context.Context) (*dataset.Table, error)
	Status() dataset.Status
}

// Notifier pushes messages to connected clients
type Notifier interface {
	Broadcast(messageType string, data interface{})
}

// DashboardService computes every dashboard view from the cached table.
// It holds no per-request state; concurrent callers share the base table.
type DashboardService struct {
	data       DatasetProvider
	features   config.FeaturesConfig
	analytics  config.AnalyticsConfig
	exportBOM  bool
	classifier analytics.Classifier

	notifier Notifier
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// DashboardOption customizes a DashboardService
type DashboardOption func(*DashboardService)

// WithNotifier sets where reload notifications are sent
func WithNotifier(n Notifier) DashboardOption {
	return func(s *DashboardService) { s.notifier = n }
}

// WithBusinessMetrics records query metrics on m
func WithBusinessMetrics(m *infrastructure.BusinessMetrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = m }
}

// WithClock overrides the clock used to stamp export file names
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

// WithClassifier overrides the approval classifier built from configuration
func WithClassifier(c analytics.Classifier) DashboardOption {
	return func(s *DashboardService) { s.classifier = c }
}

// NewDashboardService creates a dashboard service over data
func NewDashboardService(data DatasetProvider, cfg *config.Config, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	s := &DashboardService{
		data:       data,
		features:   cfg.Features,
		analytics:  cfg.Analytics,
		exportBOM:  cfg.Dataset.ExportBOM,
		classifier: analytics.NewClassifier(cfg.Analytics.StatusCatalog, logger),
		tracer:     otel.Tracer(infrastructure.MeterName),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Info("DashboardService initialized",
		slog.Bool("quick_presets", s.features.QuickPresets),
		slog.Bool("search", s.features.Search),
		slog.Bool("advanced_stats", s.features.AdvancedStats),
		slog.Int("status_catalog_size", len(cfg.Analytics.StatusCatalog)))
	return s
}

// Features returns the enabled optional views
func (s *DashboardService) Features() config.FeaturesConfig {
	return s.features
}

// Options returns the values offered by the filter controls. Authors and
// statuses come from the date-filtered table; bills from the fully filtered
// view.
func (s *DashboardService) Options(ctx context.Context, q Query) (_ Options, err error) {
	ctx, done := s.begin(ctx, "options")
	defer func() { done(err) }()

	full, err := s.table(ctx)
	if err != nil {
		return Options{}, err
	}
	if err := s.checkPreset(q.Filter.Preset); err != nil {
		return Options{}, err
	}

	dated, err := s.apply(full, filter.Spec{Start: q.Filter.Start, End: q.Filter.End, Preset: q.Filter.Preset})
	if err != nil {
		return Options{}, err
	}
	view, err := s.apply(full, q.Filter)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Presets:  []domain.DatePreset{domain.PresetCustom},
		Authors:  filter.AuthorOptions(dated, q.AuthorQuery),
		Statuses: dated.Statuses(),
		Bills:    view.Bills(),
		Features: s.features,
	}
	if s.features.QuickPresets {
		opts.Presets = domain.Presets
	}
	if minDate, maxDate, ok := full.DateBounds(); ok {
		opts.DateMin, opts.DateMax = &minDate, &maxDate
	}
	if r, ok := filter.Resolve(full, q.Filter); ok {
		opts.Range = &r
	}
	return opts, nil
}

// Overview returns the KPIs and the main charts of the filtered view
func (s *DashboardService) Overview(ctx context.Context, q Query) (_ Overview, err error) {
	ctx, done := s.begin(ctx, "overview")
	defer func() { done(err) }()

	full, view, err := s.filtered(ctx, q)
	if err != nil {
		return Overview{}, err
	}

	o := Overview{
		KPIs:         analytics.KPIs(view, full, s.classifier),
		StatusCounts: analytics.StatusCounts(view),
		Monthly:      analytics.MonthlyCounts(view),
		TopAuthors:   analytics.TopAuthors(view, s.analytics.TopAuthors),
	}
	if r, ok := filter.Resolve(full, q.Filter); ok {
		o.Range = &r
	}
	return o, nil
}

// Events returns the filtered view sorted by q.SortBy, newest first unless
// q.Ascending is set
func (s *DashboardService) Events(ctx context.Context, q Query) (_ EventsPage, err error) {
	ctx, done := s.begin(ctx, "events")
	defer func() { done(err) }()

	_, view, err := s.filtered(ctx, q)
	if err != nil {
		return EventsPage{}, err
	}
	rows, err := s.sorted(view, q)
	if err != nil {
		return EventsPage{}, err
	}

	page := EventsPage{Total: len(rows), SortBy: sortColumn(q.SortBy), Order: "desc", Events: rows}
	if q.Ascending {
		page.Order = "asc"
	}
	return page, nil
}

// Export serializes the filtered and sorted view in format
func (s *DashboardService) Export(ctx context.Context, q Query, format exporter.Format) (_ ExportResult, err error) {
	ctx, done := s.begin(ctx, "export")
	defer func() { done(err) }()

	exp, err := exporter.New(format, exporter.WriteOptions{BOMPrefix: s.exportBOM})
	if err != nil {
		return ExportResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	_, view, err := s.filtered(ctx, q)
	if err != nil {
		return ExportResult{}, err
	}
	rows, err := s.sorted(view, q)
	if err != nil {
		return ExportResult{}, err
	}

	var buf bytes.Buffer
	if err := exp.Export(&buf, rows); err != nil {
		return ExportResult{}, fmt.Errorf("failed to export view: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ExportsTotal.Add(ctx, 1)
		s.metrics.ExportedRecords.Add(ctx, int64(len(rows)))
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("export.format", string(format)),
		attribute.Int("export.records", len(rows)),
	)

	return ExportResult{
		Filename:    format.Filename(s.now()),
		ContentType: format.ContentType(),
		Records:     len(rows),
		Data:        buf.Bytes(),
	}, nil
}

// Author returns the profile of one author within the filtered view. An
// author who never appears in the dataset is ErrAuthorNotFound; one filtered
// out of the view gets an empty profile.
func (s *DashboardService) Author(ctx context.Context, q Query, author string) (_ AuthorView, err error) {
	ctx, done := s.begin(ctx, "author")
	defer func() { done(err) }()

	full, view, err := s.filtered(ctx, q)
	if err != nil {
		return AuthorView{}, err
	}
	if !slices.Contains(full.Authors(), author) {
		return AuthorView{}, fmt.Errorf("%w: %q", ErrAuthorNotFound, author)
	}

	mine := view.Where(func(e domain.BillEvent) bool { return e.Author == author })
	events, err := analytics.SortEvents(mine.Rows(), analytics.SortByDate, false)
	if err != nil {
		return AuthorView{}, err
	}
	return AuthorView{
		Profile:      analytics.AuthorProfile(view, author, s.classifier),
		StatusCounts: analytics.StatusCounts(mine),
		Monthly:      analytics.MonthlyCounts(mine),
		Events:       events,
	}, nil
}

// Timeline returns the complete history of a bill from the unfiltered table
func (s *DashboardService) Timeline(ctx context.Context, billID string) (_ domain.BillTimeline, err error) {
	ctx, done := s.begin(ctx, "timeline")
	defer func() { done(err) }()

	billID = strings.TrimSpace(billID)
	if billID == "" {
		return domain.BillTimeline{}, fmt.Errorf("%w: bill is required", ErrInvalidInput)
	}

	full, err := s.table(ctx)
	if err != nil {
		return domain.BillTimeline{}, err
	}
	timeline, ok := analytics.BillTimeline(full, billID)
	if !ok {
		return domain.BillTimeline{}, fmt.Errorf("%w: %q", ErrBillNotFound, billID)
	}
	return timeline, nil
}

// Search matches term against the full table, ignoring the sidebar filters
func (s *DashboardService) Search(ctx context.Context, term string) (_ SearchResult, err error) {
	ctx, done := s.begin(ctx, "search")
	defer func() { done(err) }()

	if !s.features.Search {
		return SearchResult{}, fmt.Errorf("%w: search", ErrFeatureDisabled)
	}

	full, err := s.table(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	hits := filter.Search(full, term)
	return SearchResult{
		Term:   strings.TrimSpace(term),
		Total:  hits.Len(),
		Groups: analytics.SearchGroups(hits, full),
	}, nil
}

// AdvancedStats returns the heatmap, approval ranking and coauthor pairs of
// the filtered view
func (s *DashboardService) AdvancedStats(ctx context.Context, q Query) (_ AdvancedStats, err error) {
	ctx, done := s.begin(ctx, "advanced_stats")
	defer func() { done(err) }()

	if !s.features.AdvancedStats {
		return AdvancedStats{}, fmt.Errorf("%w: advanced statistics", ErrFeatureDisabled)
	}

	_, view, err := s.filtered(ctx, q)
	if err != nil {
		return AdvancedStats{}, err
	}
	return AdvancedStats{
		Activity:        analytics.ActivityMatrix(view),
		ApprovalRanking: analytics.AuthorApprovalRanking(view, s.analytics.MinBillsForRanking, s.analytics.RankingSize, s.classifier),
		CoauthorPairs:   analytics.TopCoauthorPairs(view, s.analytics.TopPairs),
	}, nil
}

// Reload drops the cached table, loads it again and notifies subscribers
func (s *DashboardService) Reload(ctx context.Context) (_ ReloadResult, err error) {
	ctx, done := s.begin(ctx, "reload")
	defer func() { done(err) }()

	table, err := s.data.Reload(ctx)
	if err != nil {
		return ReloadResult{}, datasetError(err)
	}

	result := ReloadResult{Rows: table.Len(), Report: s.data.Status().Report}
	s.logger.InfoContext(ctx, "dataset reloaded",
		slog.Int("rows", result.Rows),
		slog.String("source", result.Report.Source))

	if s.notifier != nil {
		s.notifier.Broadcast(MessageDatasetReloaded, result)
	}
	return result, nil
}

// Summary describes the full table
func (s *DashboardService) Summary(ctx context.Context) (_ Summary, err error) {
	ctx, done := s.begin(ctx, "summary")
	defer func() { done(err) }()

	full, err := s.table(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Rows:           full.Len(),
		UniqueBills:    full.UniqueBills(),
		UniqueSessions: full.UniqueSessions(),
		Authors:        len(full.Authors()),
		ApprovalRate:   analytics.ApprovalRateWith(full, s.classifier),
		StatusCounts:   analytics.StatusCounts(full),
		Report:         s.data.Status().Report,
	}
	if minDate, maxDate, ok := full.DateBounds(); ok {
		sum.DateMin, sum.DateMax = &minDate, &maxDate
	}
	return sum, nil
}

// begin starts the span for a query and returns the function that ends it
func (s *DashboardService) begin(ctx context.Context, query string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "dashboard."+query,
		trace.WithAttributes(attribute.String("dashboard.query", query)))
	start := time.Now()

	return ctx, func(err error) {
		infrastructure.RecordQuery(ctx, s.metrics, query, time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			logServiceError(ctx, "dashboard_service", query, err)
		}
		span.End()
	}
}

func (s *DashboardService) table(ctx context.Context) (*dataset.Table, error) {
	table, err := s.data.Get(ctx)
	if err != nil {
		return nil, datasetError(err)
	}
	return table, nil
}

func (s *DashboardService) filtered(ctx context.Context, q Query) (full, view *dataset.Table, err error) {
	if err := s.checkPreset(q.Filter.Preset); err != nil {
		return nil, nil, err
	}
	full, err = s.table(ctx)
	if err != nil {
		return nil, nil, err
	}
	view, err = s.apply(full, q.Filter)
	if err != nil {
		return nil, nil, err
	}
	return full, view, nil
}

func (s *DashboardService) apply(table *dataset.Table, spec filter.Spec) (*dataset.Table, error) {
	view, err := filter.Apply(table, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return view, nil
}

func (s *DashboardService) sorted(view *dataset.Table, q Query) ([]domain.BillEvent, error) {
	rows, err := analytics.SortEvents(view.Rows(), q.SortBy, q.Ascending)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return rows, nil
}

// checkPreset rejects quick presets when they are turned off
func (s *DashboardService) checkPreset(p domain.DatePreset) error {
	if s.features.QuickPresets || p == "" || p == domain.PresetCustom {
		return nil
	}
	return fmt.Errorf("%w: quick date presets", ErrFeatureDisabled)
}

func datasetError(err error) error {
	if errors.Is(err, dataset.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrDatasetNotFound, err)
	}
	return err
}

func sortColumn(column string) string {
	if column == "" {
		return analytics.SortByDate
	}
	return strings.ToLower(column)
}
