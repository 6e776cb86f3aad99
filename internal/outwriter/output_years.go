package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"
)

// Levels of the long-format year CSV.
const (
	requestLevel  = "request"
	responseLevel = "response"
)

// WriteYearResults outputs both year tables, dispatching based on the output format configured.
func WriteYearResults(years schema.YearTables, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, years)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForYears(w, years)
		}, "Wrote CSV")
	case schema.TextOut, "":
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYearTables(w, years)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg.Output, "years")
	}
}

// writeYearTables renders the request-level table followed by the report-level table.
func writeYearTables(w io.Writer, years schema.YearTables) error {
	if _, err := fmt.Fprintln(w, "Requests for response by year"); err != nil {
		return err
	}
	header := []string{"Year"}
	for _, s := range schema.AllRecipientStatuses {
		header = append(header, contract.GetRequestLabel(s))
	}
	var data [][]string
	for _, y := range years.Requests {
		row := []string{strconv.Itoa(y.Year)}
		for _, s := range schema.AllRecipientStatuses {
			row = append(row, strconv.Itoa(y.Count(s)))
		}
		data = append(data, row)
	}
	if err := renderTable(w, header, data); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nReport response status by year"); err != nil {
		return err
	}
	header = []string{"Year"}
	for _, s := range years.Responses.Columns {
		header = append(header, contract.GetResponseLabel(s))
	}
	data = data[:0]
	for _, y := range years.Responses.Rows {
		row := []string{strconv.Itoa(y.Year)}
		for _, s := range years.Responses.Columns {
			row = append(row, strconv.Itoa(y.Counts[s]))
		}
		data = append(data, row)
	}
	return renderTable(w, header, data)
}

// renderTable writes a right-aligned table.
func renderTable(w io.Writer, header []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForYears writes both tables in long format: one row per year and status.
func writeCSVResultsForYears(w io.Writer, years schema.YearTables) error {
	return writeCSVWithHeader(w, []string{"level", "year", "status", "count"}, func(cw *csv.Writer) error {
		for _, y := range years.Requests {
			for _, s := range schema.AllRecipientStatuses {
				if err := cw.Write([]string{requestLevel, strconv.Itoa(y.Year), string(s), strconv.Itoa(y.Count(s))}); err != nil {
					return err
				}
			}
		}
		for _, y := range years.Responses.Rows {
			for _, s := range years.Responses.Columns {
				if err := cw.Write([]string{responseLevel, strconv.Itoa(y.Year), string(s), strconv.Itoa(y.Counts[s])}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
