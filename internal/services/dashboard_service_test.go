package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/fmaignacio/observatorio-tere/internal/config"
	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	apperrors "github.com/fmaignacio/observatorio-tere/internal/errors"
	"github.com/fmaignacio/observatorio-tere/internal/exporter"
	"github.com/fmaignacio/observatorio-tere/internal/filter"
	"github.com/fmaignacio/observatorio-tere/internal/infrastructure"
	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// stubProvider serves a fixed table or error
type stubProvider struct {
	table   *dataset.Table
	err     error
	reloads int
	report  dataset.LoadReport
}

func (p *stubProvider) Get(context.Context) (*dataset.Table, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.table, nil
}

func (p *stubProvider) Reload(ctx context.Context) (*dataset.Table, error) {
	p.reloads++
	return p.Get(ctx)
}

func (p *stubProvider) Status() dataset.Status {
	return dataset.Status{Loaded: p.err == nil, Report: p.report}
}

func newService(t *testing.T, mutate func(*config.Config), opts ...DashboardOption) (*DashboardService, *stubProvider) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	logger, _ := testutil.NewTestLogger(t)
	provider := &stubProvider{
		table:  dataset.NewTable(testutil.SampleEvents()),
		report: dataset.LoadReport{Source: "sample.csv", RowsRead: 9, RowsKept: 9},
	}
	return NewDashboardService(provider, cfg, logger, opts...), provider
}

func TestDashboardService_Overview(t *testing.T) {
	svc, _ := newService(t, nil)

	o, err := svc.Overview(context.Background(), Query{})
	require.NoError(t, err)

	assert.Equal(t, 9, o.KPIs.TotalEvents)
	assert.Equal(t, 0, o.KPIs.FilteredOut)
	assert.Equal(t, "Ana Souza", o.KPIs.MostActiveAuthor)
	assert.Len(t, o.TopAuthors, 3)
	assert.Len(t, o.Monthly, 4)
	require.NotNil(t, o.Range)
	assert.Equal(t, testutil.Date("2025-01-20"), o.Range.End)
}

func TestDashboardService_OverviewFiltered(t *testing.T) {
	svc, _ := newService(t, nil)

	o, err := svc.Overview(context.Background(), Query{Filter: filter.Spec{Authors: []string{"Bia Lima"}}})
	require.NoError(t, err)
	assert.Equal(t, 2, o.KPIs.TotalEvents)
	assert.Equal(t, 7, o.KPIs.FilteredOut)
	assert.Equal(t, "Bia", o.KPIs.MostActiveShort)

	empty, err := svc.Overview(context.Background(), Query{Filter: filter.Spec{Authors: []string{"Ninguém"}}})
	require.NoError(t, err)
	assert.Equal(t, domain.NotAvailable, empty.KPIs.MostActiveAuthor)
	assert.Equal(t, 0.0, empty.KPIs.ApprovalRate)
	assert.Empty(t, empty.StatusCounts)
}

func TestDashboardService_DatasetErrors(t *testing.T) {
	t.Run("missing file is the no data state", func(t *testing.T) {
		svc, provider := newService(t, nil)
		provider.err = apperrors.NewNotFoundError("dataset", dataset.ErrNotFound)

		_, err := svc.Overview(context.Background(), Query{})
		assert.True(t, errors.Is(err, ErrDatasetNotFound))
		assert.True(t, errors.Is(err, dataset.ErrNotFound))

		_, err = svc.Timeline(context.Background(), "1/2025")
		assert.True(t, errors.Is(err, ErrDatasetNotFound))
	})

	t.Run("missing columns pass through", func(t *testing.T) {
		svc, provider := newService(t, nil)
		provider.err = apperrors.NewConfigError("missing columns", dataset.ErrMissingColumns)

		_, err := svc.Summary(context.Background())
		assert.False(t, errors.Is(err, ErrDatasetNotFound))

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
	})
}

func TestDashboardService_InvalidInput(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Events(ctx, Query{Filter: filter.Spec{Start: testutil.DatePtr("2025-01-01"), End: testutil.DatePtr("2024-01-01")}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(err, filter.ErrInvalidSpec))

	_, err = svc.Events(ctx, Query{SortBy: "fonte"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.Export(ctx, Query{}, exporter.Format("pdf"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.Timeline(ctx, "  ")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDashboardService_Events(t *testing.T) {
	svc, _ := newService(t, nil)

	page, err := svc.Events(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, 9, page.Total)
	assert.Equal(t, "date", page.SortBy)
	assert.Equal(t, "desc", page.Order)
	assert.Equal(t, 8, page.Events[0].Row, "newest first by default")

	page, err = svc.Events(context.Background(), Query{SortBy: "author", Ascending: true, Filter: filter.Spec{BillSearch: "3/"}})
	require.NoError(t, err)
	assert.Equal(t, "asc", page.Order)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Carlos Mendes", page.Events[0].Author)
}

func TestDashboardService_Options(t *testing.T) {
	svc, _ := newService(t, nil)

	opts, err := svc.Options(context.Background(), Query{
		Filter:      filter.Spec{Start: testutil.DatePtr("2025-01-01"), Authors: []string{"Ana Souza"}},
		AuthorQuery: "li",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bia Lima"}, opts.Authors, "authors come from the date range only")
	assert.Equal(t, []string{"6/2025", "7/2025"}, opts.Bills)
	assert.Equal(t, domain.Presets, opts.Presets)
	require.NotNil(t, opts.DateMin)
	assert.Equal(t, testutil.Date("2024-02-01"), *opts.DateMin)
	require.NotNil(t, opts.Range)
	assert.Equal(t, testutil.Date("2025-01-01"), opts.Range.Start)
}

func TestDashboardService_FeatureSwitches(t *testing.T) {
	minimal := func(cfg *config.Config) {
		cfg.Features = config.FeaturesConfig{}
	}
	svc, _ := newService(t, minimal)
	ctx := context.Background()

	_, err := svc.Search(ctx, "ana")
	assert.True(t, errors.Is(err, ErrFeatureDisabled))

	_, err = svc.AdvancedStats(ctx, Query{})
	assert.True(t, errors.Is(err, ErrFeatureDisabled))

	_, err = svc.Overview(ctx, Query{Filter: filter.Spec{Preset: domain.PresetLast30Days}})
	assert.True(t, errors.Is(err, ErrFeatureDisabled))

	_, err = svc.Overview(ctx, Query{Filter: filter.Spec{Preset: domain.PresetCustom}})
	assert.NoError(t, err)

	opts, err := svc.Options(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, []domain.DatePreset{domain.PresetCustom}, opts.Presets)
	assert.False(t, svc.Features().Search)
}

func TestDashboardService_Search(t *testing.T) {
	svc, _ := newService(t, nil)

	res, err := svc.Search(context.Background(), " bia ")
	require.NoError(t, err)
	assert.Equal(t, "bia", res.Term)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "2/2025", res.Groups[0].BillID)

	res, err = svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Groups)
}

func TestDashboardService_AdvancedStats(t *testing.T) {
	svc, _ := newService(t, func(cfg *config.Config) { cfg.Analytics.MinBillsForRanking = 2 })

	stats, err := svc.AdvancedStats(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, stats.Activity.Years)
	require.Len(t, stats.ApprovalRanking, 3)
	assert.Equal(t, "Carlos Mendes", stats.ApprovalRanking[0].Author)
	require.Len(t, stats.CoauthorPairs, 2)
	assert.Equal(t, "Ana Souza & Bia Lima", stats.CoauthorPairs[0].Label)
}

func TestDashboardService_Author(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	view, err := svc.Author(ctx, Query{}, "Carlos Mendes")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Profile.Total)
	assert.InDelta(t, 50.0, view.Profile.ApprovalRate, 1e-9)
	require.Len(t, view.Events, 2)
	assert.Equal(t, testutil.Date("2024-04-15"), view.Events[0].SessionDate, "newest first")

	_, err = svc.Author(ctx, Query{}, "Ninguém")
	assert.True(t, errors.Is(err, ErrAuthorNotFound))

	outside, err := svc.Author(ctx, Query{Filter: filter.Spec{Start: testutil.DatePtr("2025-01-01")}}, "Carlos Mendes")
	require.NoError(t, err)
	assert.Equal(t, 0, outside.Profile.Total)
	assert.Nil(t, outside.Profile.FirstDate)
	assert.Empty(t, outside.Events)
}

func TestDashboardService_Timeline(t *testing.T) {
	svc, _ := newService(t, nil)

	timeline, err := svc.Timeline(context.Background(), " 1/2025 ")
	require.NoError(t, err)
	assert.Equal(t, "Aprovado (Votação Simbólica)", timeline.CurrentStatus)
	assert.Equal(t, 29, timeline.DaysInProcess)

	_, err = svc.Timeline(context.Background(), "99/2025")
	assert.True(t, errors.Is(err, ErrBillNotFound))
}

func TestDashboardService_Export(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	svc, _ := newService(t, func(cfg *config.Config) { cfg.Dataset.ExportBOM = true }, WithClock(clock))

	res, err := svc.Export(context.Background(), Query{Filter: filter.Spec{Authors: []string{"Bia Lima"}}, Ascending: true}, exporter.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "observatorio_teresopolis_20250314.csv", res.Filename)
	assert.Equal(t, 2, res.Records)
	assert.Contains(t, res.ContentType, "text/csv")

	body := strings.TrimPrefix(string(res.Data), "\ufeff")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "PL,Autor,Status,Data Sessão,Presentes,Fonte", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2/2025,Bia Lima,Rejeitado,2024-02-01"))

	xlsx, err := svc.Export(context.Background(), Query{}, exporter.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "observatorio_teresopolis_20250314.xlsx", xlsx.Filename)
	assert.NotEmpty(t, xlsx.Data)
}

func TestDashboardService_Reload(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("Broadcast", MessageDatasetReloaded, mock.AnythingOfType("services.ReloadResult")).Return()

	svc, provider := newService(t, nil, WithNotifier(notifier))

	res, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, res.Rows)
	assert.Equal(t, "sample.csv", res.Report.Source)
	assert.Equal(t, 1, provider.reloads)
	notifier.AssertExpectations(t)
}

func TestDashboardService_ReloadFailureDoesNotNotify(t *testing.T) {
	notifier := &MockNotifier{}
	svc, provider := newService(t, nil, WithNotifier(notifier))
	provider.err = dataset.ErrNotFound

	_, err := svc.Reload(context.Background())
	assert.True(t, errors.Is(err, ErrDatasetNotFound))
	notifier.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestDashboardService_Summary(t *testing.T) {
	svc, _ := newService(t, nil)

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, sum.Rows)
	assert.Equal(t, 7, sum.UniqueBills)
	assert.Equal(t, 3, sum.Authors)
	assert.Equal(t, 5, sum.UniqueSessions)
	assert.InDelta(t, 100.0/3, sum.ApprovalRate, 1e-9)
	require.NotNil(t, sum.DateMax)
	assert.Equal(t, testutil.Date("2025-01-20"), *sum.DateMax)
}

func TestDashboardService_RecordsQueryMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := infrastructure.CreateBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	svc, _ := newService(t, nil, WithBusinessMetrics(metrics))
	ctx := context.Background()
	_, err = svc.Overview(ctx, Query{})
	require.NoError(t, err)
	_, err = svc.Timeline(ctx, "99/2025")
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	assert.Equal(t, int64(2), sumOf(t, rm, "dashboard_queries_total"))
	assert.Equal(t, int64(1), sumOf(t, rm, "dashboard_query_errors_total"))
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
