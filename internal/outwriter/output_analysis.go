package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pfdtrack/pfdstatus/core/agg"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"
)

// analysisSummary is the machine-readable summary of an analyse run.
type analysisSummary struct {
	ReferenceDate string                         `json:"reference_date"`
	Reports       int                            `json:"reports"`
	Requests      int                            `json:"requests"`
	Responses     map[schema.ResponseStatus]int  `json:"responses"`
	RequestCounts map[schema.RecipientStatus]int `json:"request_statuses"`
}

// WriteAnalysisSummary outputs the status distribution of an analyse run.
func WriteAnalysisSummary(out *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	c := out.Classification
	summary := analysisSummary{
		ReferenceDate: c.ReferenceDate.Format(schema.DateLayout),
		Reports:       len(c.Reports),
		Requests:      len(c.Requests),
		Responses:     out.ResponseCounts,
		RequestCounts: out.RequestCounts,
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVAnalysisSummary(w, summary)
		}, "Wrote CSV")
	case schema.TextOut, "":
		fmtFloat, _ := createFormatters(cfg.Precision)
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(w, summary, fmtFloat, duration)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg.Output, "analyse")
	}
}

func writeAnalysisTable(w io.Writer, s analysisSummary, fmtFloat func(float64) string, duration time.Duration) error {
	var data [][]string
	for _, status := range schema.AllResponseStatuses {
		n := s.Responses[status]
		data = append(data, []string{contract.GetResponseLabel(status), strconv.Itoa(n), fmtFloat(agg.Percent(n, s.Reports))})
	}
	if err := renderTable(w, []string{"Response status", "Reports", "%"}, data); err != nil {
		return err
	}

	data = data[:0]
	for _, status := range schema.AllRecipientStatuses {
		n := s.RequestCounts[status]
		data = append(data, []string{contract.GetRequestLabel(status), strconv.Itoa(n), fmtFloat(agg.Percent(n, s.Requests))})
	}
	if err := renderTable(w, []string{"Request status", "Requests", "%"}, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Analysed %d reports (%d requests for response) as of %s in %v\n",
		s.Reports, s.Requests, s.ReferenceDate, duration.Round(time.Millisecond))
	return err
}

func writeCSVAnalysisSummary(w io.Writer, s analysisSummary) error {
	return writeCSVWithHeader(w, []string{"level", "status", "count"}, func(cw *csv.Writer) error {
		for _, status := range schema.AllResponseStatuses {
			if err := cw.Write([]string{responseLevel, string(status), strconv.Itoa(s.Responses[status])}); err != nil {
				return err
			}
		}
		for _, status := range schema.AllRecipientStatuses {
			if err := cw.Write([]string{requestLevel, string(status), strconv.Itoa(s.RequestCounts[status])}); err != nil {
				return err
			}
		}
		return nil
	})
}
