package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pfdtrack/pfdstatus/schema"
)

// AnalysedHeader returns the header of the analysed table: the response status first,
// the count columns right after the recipients column, and duplicate names collapsed
// with the first occurrence winning. Names are trimmed.
func AnalysedHeader(header []string) []string {
	cols := make([]string, 0, len(header)+3)
	cols = append(cols, schema.StatusColumn)
	for _, h := range header {
		h = strings.TrimSpace(h)
		cols = append(cols, h)
		if h == schema.RecipientsColumn {
			cols = append(cols, schema.NumRecipientColumn, schema.NumRepliesColumn)
		}
	}

	seen := make(map[string]bool, len(cols))
	out := cols[:0]
	for _, c := range cols {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// WriteAnalysed writes the reports table with its derived columns.
// Classified rows must be in the same order as the table rows.
// Rows the classifier did not reach get zero counts.
func WriteAnalysed(w io.Writer, t *schema.ReportTable, reports []schema.ClassifiedReport) error {
	if len(reports) != len(t.Rows) {
		return fmt.Errorf("have %d classified reports for %d table rows", len(reports), len(t.Rows))
	}

	header := AnalysedHeader(t.Header)
	source := make(map[string]int, len(t.Header))
	for i := len(t.Header) - 1; i >= 0; i-- {
		source[strings.TrimSpace(t.Header[i])] = i
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	rec := make([]string, len(header))
	for i, row := range t.Rows {
		c := reports[i]
		for j, col := range header {
			switch col {
			case schema.StatusColumn:
				rec[j] = string(c.Status)
			case schema.NumRecipientColumn:
				rec[j] = strconv.Itoa(reachedCount(c, c.NumRecipients()))
			case schema.NumRepliesColumn:
				rec[j] = strconv.Itoa(reachedCount(c, c.NumReplies()))
			default:
				rec[j] = row[source[col]]
			}
		}
		if err := csvWriter.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func reachedCount(c schema.ClassifiedReport, n int) int {
	if !c.Reached {
		return 0
	}
	return n
}

// WriteAnalysedFile writes the analysed table to path. The content goes to a temporary
// file in the same directory which is renamed into place only when writing succeeded.
func WriteAnalysedFile(path string, t *schema.ReportTable, reports []schema.ClassifiedReport) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".reports-analysed-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := WriteAnalysed(tmp, t, reports); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move analysed table into place: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote analysed reports to %s\n", path)
	return nil
}
