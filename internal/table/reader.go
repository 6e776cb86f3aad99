// Package table reads the reports table and reply log, and writes the analysed table back.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfdtrack/pfdstatus/schema"
)

// Table names used in schema errors.
const (
	ReportsTable  = "reports"
	ReplyLogTable = "reply log"
)

// replyLogColumns must be present in the reply log.
var replyLogColumns = []string{schema.RefColumn, schema.ReplyURLsColumn}

// ReadReportsFile reads the reports table from a CSV file.
func ReadReportsFile(path string) (*schema.ReportTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reports table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadReports(f)
}

// ReadReports reads a reports table. Every column is kept for round-tripping.
// Empty recipient and reply cells are treated as absent.
func ReadReports(r io.Reader) (*schema.ReportTable, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	index, err := columnIndex(ReportsTable, header, schema.RequiredColumns)
	if err != nil {
		return nil, err
	}

	out := &schema.ReportTable{Header: header, Rows: rows, Reports: make([]schema.Report, len(rows))}
	for i, row := range rows {
		out.Reports[i] = schema.Report{
			Row:           i,
			Ref:           row[index[schema.RefColumn]],
			DateRaw:       row[index[schema.DateColumn]],
			RecipientsRaw: optional(row[index[schema.RecipientsColumn]]),
			RepliesRaw:    optional(row[index[schema.ReplyURLsColumn]]),
		}
	}
	return out, nil
}

// ReadReplyLogFile reads the reply log from a CSV file.
func ReadReplyLogFile(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reply log: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadReplyLog(f)
}

// ReadReplyLog reads a reply log into reply entries per report ref, in log order.
// Empty entries are skipped.
func ReadReplyLog(r io.Reader) (map[string][]string, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	index, err := columnIndex(ReplyLogTable, header, replyLogColumns)
	if err != nil {
		return nil, err
	}

	replies := make(map[string][]string)
	for _, row := range rows {
		ref := strings.TrimSpace(row[index[schema.RefColumn]])
		entry := strings.TrimSpace(row[index[schema.ReplyURLsColumn]])
		if ref == "" || entry == "" {
			continue
		}
		replies[ref] = append(replies[ref], entry)
	}
	return replies, nil
}

// JoinReplies replaces the reply field of every report with the entries logged for its ref.
// Reports absent from the log get an absent reply field.
func JoinReplies(t *schema.ReportTable, replies map[string][]string) {
	replyIdx := indexOf(t.Header, schema.ReplyURLsColumn)
	for i := range t.Reports {
		entries, ok := replies[strings.TrimSpace(t.Reports[i].Ref)]
		if !ok {
			t.Reports[i].RepliesRaw = nil
			t.Rows[i][replyIdx] = ""
			continue
		}
		joined := strings.Join(entries, " | ")
		t.Reports[i].RepliesRaw = &joined
		t.Rows[i][replyIdx] = joined
	}
}

// readAll reads a CSV table, trimming header names and padding short rows to the header width.
func readAll(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("table is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+1, err)
		}
		if len(rec) < len(header) {
			rec = append(rec, make([]string, len(header)-len(rec))...)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// columnIndex locates the required columns, returning a SchemaError listing every missing one.
func columnIndex(table string, header, required []string) (map[string]int, error) {
	index := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		i := indexOf(header, col)
		if i < 0 {
			missing = append(missing, col)
			continue
		}
		index[col] = i
	}
	if len(missing) > 0 {
		return nil, &schema.SchemaError{Table: table, Missing: missing}
	}
	return index, nil
}

// indexOf returns the first position of name in header, or -1.
func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// optional maps an empty cell to an absent value.
func optional(cell string) *string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	return &cell
}
