package http

import (
	"context"

	"github.com/fmaignacio/observatorio-tere/internal/config"
	"github.com/fmaignacio/observatorio-tere/internal/exporter"
	"github.com/fmaignacio/observatorio-tere/internal/services"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers expose
type DashboardServiceInterface interface {
	Features() config.FeaturesConfig
	Options(ctx context.Context, q services.Query) (services.Options, error)
	Overview(ctx context.Context, q services.Query) (services.Overview, error)
	Events(ctx context.Context, q services.Query) (services.EventsPage, error)
	Export(ctx context.Context, q services.Query, format exporter.Format) (services.ExportResult, error)
	Author(ctx context.Context, q services.Query, author string) (services.AuthorView, error)
	Timeline(ctx context.Context, billID string) (domain.BillTimeline, error)
	Search(ctx context.Context, term string) (services.SearchResult, error)
	AdvancedStats(ctx context.Context, q services.Query) (services.AdvancedStats, error)
	Reload(ctx context.Context) (services.ReloadResult, error)
}
