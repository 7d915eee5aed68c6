package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fmaignacio/observatorio-tere/internal/app"
)

func (c *cli) serveCmd() *cobra.Command {
	var port int
	var noPreload bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API, /ws notifications and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}
			if noPreload {
				c.cfg.Dataset.LoadOnStartup = false
			}

			application, err := app.NewApplication(c.cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return application.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().BoolVar(&noPreload, "no-preload", false, "load the dataset on first request instead of at startup")
	return cmd
}
