package cmd

import (
	"github.com/pfdtrack/pfdstatus/core"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/spf13/cobra"
)

// recipientsCmd shows the per-recipient request table.
var recipientsCmd = &cobra.Command{
	Use:   "recipients <reports.csv>",
	Short: "Show request statuses per recipient, busiest recipients first.",
	Long: `Count the requests for response sent to each recipient and how many of them
are overdue, pending or received.

Recipients are ordered by number of reports, then by name.

Examples:
  # Top 10 recipients
  pfdstatus recipients reports.csv --limit 10

  # Export for a spreadsheet
  pfdstatus recipients reports.csv --output csv --output-file recipients.csv

  # Export for DuckDB or pandas
  pfdstatus recipients reports.csv --output parquet --output-file recipients.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRecipients(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot summarise recipients", err)
		}
	},
}
