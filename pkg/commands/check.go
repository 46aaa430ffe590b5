package commands

import (
	"github.com/spf13/cobra"

	"github.com/danpilch/bees-exporter/pkg/output"
	"github.com/danpilch/bees-exporter/pkg/scan"
)

const checkCmdName = "check"

func (a *app) newCheckCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   checkCmdName,
		Short: "Scan the status directory once",
		Long: `Scan the status directory once and print every filesystem found, along
with skipped files, parse issues and failed sanity checks.

Exit status:
  0  all files parsed cleanly
  1  parse issues or failed sanity checks
  2  some status files were skipped
  3  no filesystem found
  4  the directory or configuration is unusable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return &ExitError{Code: output.ExitFailure, Err: err}
			}

			scanner, err := scan.New(a.cfg.StatsDir, scan.Options{
				Workers: a.cfg.Workers,
				Cache:   false,
				Logger:  a.logger,
			})
			if err != nil {
				return &ExitError{Code: output.ExitFailure, Err: err}
			}

			report := output.NewReport(scanner.Dir(), scanner.Scan(cmd.Context()))
			if err := output.NewFormatter(f, cmd.OutOrStdout()).Render(report); err != nil {
				return &ExitError{Code: output.ExitFailure, Err: err}
			}

			if code := report.ExitCode(); code != output.ExitClean {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(output.FormatTable), "Output format (table, json, tsv)")

	return cmd
}
