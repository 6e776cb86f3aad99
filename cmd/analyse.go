package cmd

import (
	"github.com/pfdtrack/pfdstatus/core"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/spf13/cobra"
)

// analyseCmd classifies every report and writes the analysed table.
var analyseCmd = &cobra.Command{
	Use:     "analyse <reports.csv>",
	Aliases: []string{"analyze"},
	Short:   "Classify every report and write the analysed reports table.",
	Long: `Classify the response status of every report in a PFD reports snapshot.

Each report is given one of: no requests, pending, overdue, partial, completed
(or failed when no rule applies). Requests to individual recipients are
pending until 8 weeks after the report date, overdue afterwards, and received
once a reply naming the recipient has been logged.

The run:
- Writes the analysed table with response status, no. recipients and no. replies
- Prints the response status and request status distributions
- Records the run in the history store (see 'pfdstatus history')
- Optionally writes a Prometheus textfile with --metrics-file

Examples:
  # Classify as of today
  pfdstatus analyse reports.csv

  # Classify as of a past date, with a separate reply log
  pfdstatus analyse reports.csv --as-of 2024-06-30 --replies replies.csv

  # Write the summary as JSON
  pfdstatus analyse reports.csv --output json --output-file summary.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyse(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
