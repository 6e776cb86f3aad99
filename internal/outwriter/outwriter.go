// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints the response status summary of an analyse run.
func (ow *OutWriter) WriteAnalysis(out *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisSummary(out, cfg, duration)
}

// WriteRecipients prints the per-recipient table.
func (ow *OutWriter) WriteRecipients(recipients []schema.RecipientSummary, cfg *contract.Config) error {
	return WriteRecipientResults(recipients, cfg)
}

// WriteYears prints the request and response year tables.
func (ow *OutWriter) WriteYears(years schema.YearTables, cfg *contract.Config) error {
	return WriteYearResults(years, cfg)
}

// WriteStats prints the snapshot statistics.
func (ow *OutWriter) WriteStats(stats schema.SnapshotStats, cfg *contract.Config) error {
	return WriteSnapshotStats(stats, cfg)
}

// WriteCheck prints the received-percent gate result.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config) error {
	return WriteCheckResult(result, cfg)
}

// WriteTrend prints received percent over recorded runs.
func (ow *OutWriter) WriteTrend(runs []schema.HistoryRunRecord, cfg *contract.Config) error {
	return WriteTrendResults(runs, cfg)
}
