package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmaignacio/observatorio-tere/internal/exporter"
)

func (c *cli) exportCmd() *cobra.Command {
	var filters filterFlags
	var formatName, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered event list as CSV or XLSX",
		Long: `Writes the six-column event list (PL, Autor, Status, Data Sessão, Presentes,
Fonte) for the filtered view. Without --output the file is named after the
format and today's date in the working directory; "-" writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := exporter.ParseFormat(formatName)
			if err != nil {
				return err
			}
			q, err := filters.query()
			if err != nil {
				return err
			}
			svc, logger, err := c.dashboard(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := svc.Export(cmd.Context(), q, format)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(result.Data)
				return err
			}
			if output == "" {
				output = result.Filename
			}
			if err := os.WriteFile(output, result.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			logger.InfoContext(cmd.Context(), "export written",
				slog.String("path", output),
				slog.String("format", string(format)),
				slog.Int("records", result.Records),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d records)\n", output, result.Records)
			return nil
		},
	}

	filters.bind(cmd)
	cmd.Flags().StringVarP(&formatName, "format", "f", string(exporter.FormatCSV), "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout`)
	return cmd
}
