// Package parquet provides data structures and functions for exporting report
// statuses and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pfdtrack/pfdstatus/schema"
)

// HistoryRun represents a single recorded analyse run.
// This struct maps to the history_runs database table.
type HistoryRun struct {
	// RunID is the store-assigned identifier of the run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID identifies the run across databases
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartedAt is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// ReferenceDate is the day against which due dates were measured
	ReferenceDate time.Time `parquet:"reference_date,snappy"`

	TotalReports    int32   `parquet:"total_reports,snappy"`
	TotalRequests   int32   `parquet:"total_requests,snappy"`
	ReceivedPercent float64 `parquet:"received_percent,snappy"`

	// ConfigParams contains the JSON-encoded run configuration (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// HistoryRecipient is one recipient row of a recorded run.
// This struct maps to the history_recipients database table.
type HistoryRecipient struct {
	RunID           int64   `parquet:"run_id,snappy"`
	Recipient       string  `parquet:"recipient,snappy"`
	Total           int32   `parquet:"total,snappy"`
	Overdue         int32   `parquet:"overdue,snappy"`
	Pending         int32   `parquet:"pending,snappy"`
	Received        int32   `parquet:"received,snappy"`
	ReceivedPercent float64 `parquet:"received_percent,snappy"`
}

// RecipientSummary is one row of the recipients table of a single run.
type RecipientSummary struct {
	Rank            int32   `parquet:"rank,snappy"`
	Recipient       string  `parquet:"recipient,snappy"`
	Total           int32   `parquet:"no_reports,snappy"`
	Overdue         int32   `parquet:"overdue,snappy"`
	Pending         int32   `parquet:"pending,snappy"`
	Received        int32   `parquet:"received,snappy"`
	ReceivedPercent float64 `parquet:"received_percent,snappy"`
}

// Write encodes rows to w. The schema is derived from the struct tags of T.
func Write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteHistoryRunsParquet writes history runs to a Parquet file.
func WriteHistoryRunsParquet(data []HistoryRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteHistoryRecipientsParquet writes history recipient rows to a Parquet file.
func WriteHistoryRecipientsParquet(data []HistoryRecipient, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertHistoryRunRecords converts store records for Parquet export.
func ConvertHistoryRunRecords(records []schema.HistoryRunRecord) []HistoryRun {
	result := make([]HistoryRun, len(records))
	for i, record := range records {
		result[i] = HistoryRun{
			RunID:           record.RunID,
			RunUUID:         record.RunUUID,
			StartedAt:       record.StartedAt,
			ReferenceDate:   record.ReferenceDate,
			TotalReports:    record.TotalReports,
			TotalRequests:   record.TotalRequests,
			ReceivedPercent: record.ReceivedPercent,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertHistoryRecipientRecords converts store records for Parquet export.
func ConvertHistoryRecipientRecords(records []schema.HistoryRecipientRecord) []HistoryRecipient {
	result := make([]HistoryRecipient, len(records))
	for i, record := range records {
		result[i] = HistoryRecipient(record)
	}
	return result
}

// ConvertRecipientSummaries converts ranked recipient summaries for Parquet output.
func ConvertRecipientSummaries(summaries []schema.RecipientSummary) []RecipientSummary {
	result := make([]RecipientSummary, len(summaries))
	for i, s := range summaries {
		result[i] = RecipientSummary{
			Rank:            int32(i + 1),
			Recipient:       s.Recipient,
			Total:           int32(s.Total),
			Overdue:         int32(s.Overdue),
			Pending:         int32(s.Pending),
			Received:        int32(s.Received),
			ReceivedPercent: s.ReceivedPercent,
		}
	}
	return result
}
