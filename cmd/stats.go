package cmd

import (
	"github.com/pfdtrack/pfdstatus/core"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd shows the snapshot statistics.
var statsCmd = &cobra.Command{
	Use:   "stats <reports.csv>",
	Short: "Show snapshot statistics of reports sent and requests received.",
	Long: `Summarise a snapshot as counts and percentages of reports and requests.

Includes the mean, median and interquartile range of requests per recipient.
Use --window to restrict the snapshot to reports dated within a lookback
ending at the reference date.

Examples:
  # Whole snapshot
  pfdstatus stats reports.csv

  # Last month's reports, as TOML
  pfdstatus stats reports.csv --window "1 month" --output toml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot compute stats", err)
		}
	},
}
