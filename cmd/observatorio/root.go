package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/fmaignacio/observatorio-tere/internal/config"
	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/internal/infrastructure"
	"github.com/fmaignacio/observatorio-tere/internal/middleware"
	"github.com/fmaignacio/observatorio-tere/internal/services"
	handlers "github.com/fmaignacio/observatorio-tere/internal/transport/http"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts"
)

// cli holds the state shared by every subcommand
type cli struct {
	configFile string
	dataDir    string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "observatorio",
		Short:         "Observatório Legislativo de Teresópolis",
		Long:          `Loads the municipal bill-tracking table and exposes its dashboard views over HTTP or as JSON on stdout.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "YAML config file (default: OBS_CONFIG, config.yaml or configs/config.yaml)")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "directory holding the dataset CSV")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		c.serveCmd(),
		c.summaryCmd(),
		c.exportCmd(),
		c.timelineCmd(),
		c.searchCmd(),
		c.statsCmd(),
	)
	return root
}

func (c *cli) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if c.configFile != "" {
		cfg, err = config.LoadFile(c.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if c.dataDir != "" {
		cfg.Dataset.Dir = c.dataDir
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	c.cfg = cfg
	return nil
}

// dashboard builds the service stack without the HTTP server. Logs go to
// stderr so stdout stays parseable.
func (c *cli) dashboard(stderr io.Writer) (*services.DashboardService, *slog.Logger, error) {
	logger := infrastructure.NewLogger(c.cfg.Logging, stderr)
	loader, err := dataset.NewLoader(c.cfg.Dataset, logger)
	if err != nil {
		return nil, nil, err
	}
	cache := dataset.NewCache(loader, logger)
	return services.NewDashboardService(cache, c.cfg, logger), logger, nil
}

// filterFlags binds the dashboard filter parameters to a command
type filterFlags struct {
	start, end, preset string
	authors, statuses  []string
	bill               string
	sortBy, order      string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.start, "start", "", "first session date, YYYY-MM-DD")
	fs.StringVar(&f.end, "end", "", "last session date, YYYY-MM-DD")
	fs.StringVar(&f.preset, "preset", "", "date preset: custom, all, last_30_days, last_90_days or last_180_days")
	fs.StringSliceVar(&f.authors, "author", nil, "author to include (repeatable)")
	fs.StringSliceVar(&f.statuses, "status", nil, "status to include (repeatable)")
	fs.StringVar(&f.bill, "bill", "", "bill number substring")
	fs.StringVar(&f.sortBy, "sort-by", "", "sort key: date, bill, author or status")
	fs.StringVar(&f.order, "order", "", "asc or desc")
}

// query validates the flags the same way the HTTP API validates its query string
func (f *filterFlags) query() (services.Query, error) {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set(handlers.ParamStart, f.start)
	set(handlers.ParamEnd, f.end)
	set(handlers.ParamPreset, f.preset)
	set(handlers.ParamBill, f.bill)
	set(handlers.ParamSortBy, f.sortBy)
	set(handlers.ParamOrder, f.order)
	values[handlers.ParamAuthor] = f.authors
	values[handlers.ParamStatus] = f.statuses

	dq := handlers.ParseDashboardQuery(values)
	if err := middleware.NewValidator().Struct(dq); err != nil {
		return services.Query{}, fmt.Errorf("invalid filter: %w", err)
	}
	return dq.ServiceQuery(), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
