package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"
)

// WriteCheckResult outputs the received-percent gate result.
func WriteCheckResult(result schema.CheckResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.TextOut, "":
		fmtFloat, _ := createFormatters(cfg.Precision)
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(w, result, fmtFloat)
		}, "Wrote check")
	default:
		return unsupportedOutput(cfg.Output, "check")
	}
}

// writeCheckText prints the result in a concise format suitable for CI.
func writeCheckText(w io.Writer, result schema.CheckResult, fmtFloat func(float64) string) error {
	verdict := color.New(color.FgGreen, color.Bold).Sprint("PASSED")
	if !result.Passed {
		verdict = color.New(color.FgRed, color.Bold).Sprint("FAILED")
	}
	if _, err := fmt.Fprintf(w, "Response check as of %s: %s\n", result.ReferenceDate, verdict); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Requests received: %d of %d (%s%%, minimum %s%%), overdue: %d\n",
		result.Received, result.Requests, fmtFloat(result.ReceivedPercent), fmtFloat(result.MinReceived), result.Overdue); err != nil {
		return err
	}
	if len(result.MostOverdue) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "Most overdue recipients:"); err != nil {
		return err
	}
	var data [][]string
	for _, r := range result.MostOverdue {
		data = append(data, []string{
			r.Recipient,
			strconv.Itoa(r.Overdue),
			strconv.Itoa(r.Total),
			contract.GetReceivedColorLabel(r.ReceivedPercent, fmtFloat(r.ReceivedPercent)),
		})
	}
	return renderTable(w, []string{"Recipient", "Overdue", "Reports", "% Received"}, data)
}
