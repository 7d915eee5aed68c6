package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print row counts, date range and status breakdown of the whole table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := c.dashboard(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			summary, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
}

func (c *cli) timelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline <bill>",
		Short: "Print the chronological history of one bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := c.dashboard(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			timeline, err := svc.Timeline(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), timeline)
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search bills and authors across the full table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := c.dashboard(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			result, err := svc.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	var filters filterFlags
	var overview bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print advanced statistics (or the overview) for a filtered view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := filters.query()
			if err != nil {
				return err
			}
			svc, _, err := c.dashboard(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if overview {
				view, err := svc.Overview(cmd.Context(), q)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), view)
			}
			stats, err := svc.AdvancedStats(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}

	filters.bind(cmd)
	cmd.Flags().BoolVar(&overview, "overview", false, "print the KPI overview instead of the advanced statistics")
	return cmd
}
