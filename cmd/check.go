package cmd

import (
	"github.com/pfdtrack/pfdstatus/core"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check <reports.csv>",
	Short: "Fail when too few requests for response have been received.",
	Long: `Compare the overall percent of requests received against --min-received.

Exits with a non-zero code when the percent is below the minimum, and lists
the recipients with the most overdue requests.

Examples:
  # Require at least 60% of requests to be answered
  pfdstatus check reports.csv --min-received 60

  # Machine-readable result
  pfdstatus check reports.csv --min-received 60 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Response check failed", err)
		}
	},
}
