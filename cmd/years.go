package cmd

import (
	"github.com/pfdtrack/pfdstatus/core"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/spf13/cobra"
)

// yearsCmd shows the status counts per calendar year.
var yearsCmd = &cobra.Command{
	Use:   "years <reports.csv>",
	Short: "Show request and response status counts per year of report.",
	Long: `Tabulate statuses by the calendar year of the report date.

Two tables are shown:
- Requests for response by year and recipient status
- Reports by year and response status

Examples:
  pfdstatus years reports.csv
  pfdstatus years reports.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteYears(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot count years", err)
		}
	},
}
