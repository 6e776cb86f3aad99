package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"
)

// trendRow is one point of the received-percent trend.
type trendRow struct {
	RunID           int64   `json:"run_id"`
	RunUUID         string  `json:"run_uuid"`
	StartedAt       string  `json:"started_at"`
	ReferenceDate   string  `json:"reference_date"`
	Reports         int32   `json:"reports"`
	Requests        int32   `json:"requests"`
	ReceivedPercent float64 `json:"received_percent"`
}

func toTrendRows(runs []schema.HistoryRunRecord) []trendRow {
	rows := make([]trendRow, len(runs))
	for i, r := range runs {
		rows[i] = trendRow{
			RunID:           r.RunID,
			RunUUID:         r.RunUUID,
			StartedAt:       r.StartedAt.Format(contract.DateTimeFormat),
			ReferenceDate:   r.ReferenceDate.Format(schema.DateLayout),
			Reports:         r.TotalReports,
			Requests:        r.TotalRequests,
			ReceivedPercent: r.ReceivedPercent,
		}
	}
	return rows
}

// WriteTrendResults outputs received percent per recorded run, oldest first.
func WriteTrendResults(runs []schema.HistoryRunRecord, cfg *contract.Config) error {
	rows := toTrendRows(runs)
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"run_id", "run_uuid", "started_at", "reference_date", "reports", "requests", "received_percent"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range rows {
					rec := []string{
						strconv.FormatInt(r.RunID, 10),
						r.RunUUID,
						r.StartedAt,
						r.ReferenceDate,
						strconv.Itoa(int(r.Reports)),
						strconv.Itoa(int(r.Requests)),
						fmtFloat(r.ReceivedPercent),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.TextOut, "":
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendTable(w, rows, fmtFloat)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg.Output, "history trend")
	}
}

func writeTrendTable(w io.Writer, rows []trendRow, fmtFloat func(float64) string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}

	var data [][]string
	prev := rows[0].ReceivedPercent
	for _, r := range rows {
		delta := r.ReceivedPercent - prev
		prev = r.ReceivedPercent
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.ReferenceDate,
			strconv.Itoa(int(r.Reports)),
			strconv.Itoa(int(r.Requests)),
			contract.GetReceivedColorLabel(r.ReceivedPercent, fmtFloat(r.ReceivedPercent)),
			formatDelta(delta, fmtFloat),
		})
	}
	if err := renderTable(w, []string{"Run", "As of", "Reports", "Requests", "% Received", "Change"}, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d runs\n", len(rows))
	return err
}

func formatDelta(delta float64, fmtFloat func(float64) string) string {
	if delta > 0 {
		return "+" + fmtFloat(delta)
	}
	return fmtFloat(delta)
}
