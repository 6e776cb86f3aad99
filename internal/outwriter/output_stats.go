package outwriter

import (
	"fmt"
	"io"

	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"
)

// WriteSnapshotStats outputs the snapshot statistics, dispatching based on the output format configured.
func WriteSnapshotStats(stats schema.SnapshotStats, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON")
	case schema.TOMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTOML(w, stats)
		}, "Wrote TOML")
	case schema.TextOut, "":
		fmtFloat, _ := createFormatters(cfg.Precision)
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsTable(w, stats, fmtFloat)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg.Output, "stats")
	}
}

// writeStatsTable renders both statistics sections as two-column tables.
func writeStatsTable(w io.Writer, stats schema.SnapshotStats, fmtFloat func(float64) string) error {
	pair := func(c schema.CountPercent) string {
		return fmt.Sprintf("%d (%s%%)", int(c.Count()), fmtFloat(c.Percent()))
	}

	title := "Snapshot as of " + stats.ReferenceDate
	if stats.WindowStart != "" {
		title = fmt.Sprintf("Snapshot of reports from %s to %s", stats.WindowStart, stats.ReferenceDate)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	r := stats.Reports
	if err := renderTable(w, []string{"This report is sent to", "Reports"}, [][]string{
		{"parsed", pair(r.Parsed)},
		{"without recipients", pair(r.WithoutRecipients)},
		{contract.GetResponseLabel(schema.FailedResponse), pair(r.Failed)},
		{contract.GetResponseLabel(schema.PendingResponse), pair(r.Pending)},
		{contract.GetResponseLabel(schema.OverdueResponse), pair(r.Overdue)},
		{contract.GetResponseLabel(schema.PartialResponse), pair(r.Partial)},
		{contract.GetResponseLabel(schema.CompletedResponse), pair(r.Completed)},
	}); err != nil {
		return err
	}

	q := stats.Requests
	return renderTable(w, []string{"Requests for response", "Value"}, [][]string{
		{"recipients with requests", fmt.Sprintf("%d", q.RecipientsWithRequests)},
		{"requests", fmt.Sprintf("%d", q.Requests)},
		{contract.GetRequestLabel(schema.PendingRequest), pair(q.Pending)},
		{contract.GetRequestLabel(schema.ReceivedRequest), pair(q.Received)},
		{contract.GetRequestLabel(schema.OverdueRequest), pair(q.Overdue)},
		{"mean per recipient", fmtFloat(q.Mean)},
		{"median per recipient", fmtFloat(q.Median)},
		{"IQR per recipient", fmt.Sprintf("%s - %s", fmtFloat(q.IQR[0]), fmtFloat(q.IQR[1]))},
	})
}
