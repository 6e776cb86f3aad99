package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/internal/parquet"
	"github.com/pfdtrack/pfdstatus/schema"
)

// WriteRecipientResults outputs the recipient table, dispatching based on the output format configured.
// At most cfg.ResultLimit rows are written.
func WriteRecipientResults(recipients []schema.RecipientSummary, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	total := len(recipients)
	if cfg.ResultLimit > 0 && len(recipients) > cfg.ResultLimit {
		recipients = recipients[:cfg.ResultLimit]
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForRecipients(w, recipients)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForRecipients(w, recipients, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for %s output", cfg.Output)
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertRecipientSummaries(recipients))
		}, "Wrote Parquet")
	case schema.TextOut, "":
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecipientTable(w, recipients, total, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg.Output, "recipients")
	}
}

// writeRecipientTable generates and writes the human-readable table.
func writeRecipientTable(w io.Writer, recipients []schema.RecipientSummary, total int, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Recipient", "Reports", "Overdue", "Pending", "Received", "% Received"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	totals := schema.RecipientSummary{}
	for i, r := range recipients {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(r.Recipient, nameWidth),
			fmt.Sprintf(intFmt, r.Total),
			fmt.Sprintf(intFmt, r.Overdue),
			fmt.Sprintf(intFmt, r.Pending),
			fmt.Sprintf(intFmt, r.Received),
			contract.GetReceivedColorLabel(r.ReceivedPercent, fmtFloat(r.ReceivedPercent)),
		})
		totals.Total += r.Total
		totals.Received += r.Received
		totals.Overdue += r.Overdue
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing top %d of %d recipients (requests: %d, received: %d, overdue: %d)\n",
		len(recipients), total, totals.Total, totals.Received, totals.Overdue)
	return err
}

// writeCSVResultsForRecipients writes the recipient table in CSV format.
func writeCSVResultsForRecipients(w io.Writer, recipients []schema.RecipientSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "recipient", "no_reports", "overdue", "pending", "received", "received_percent"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range recipients {
			rec := []string{
				strconv.Itoa(i + 1),
				r.Recipient,
				fmt.Sprintf(intFmt, r.Total),
				fmt.Sprintf(intFmt, r.Overdue),
				fmt.Sprintf(intFmt, r.Pending),
				fmt.Sprintf(intFmt, r.Received),
				fmtFloat(r.ReceivedPercent),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForRecipients writes the recipient table in JSON format.
func writeJSONResultsForRecipients(w io.Writer, recipients []schema.RecipientSummary) error {
	type JSONRecipient struct {
		Rank int `json:"rank"`
		schema.RecipientSummary
	}

	output := make([]JSONRecipient, len(recipients))
	for i, r := range recipients {
		output[i] = JSONRecipient{Rank: i + 1, RecipientSummary: r}
	}
	return writeJSON(w, output)
}
