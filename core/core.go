// Package core has the core logic for classifying report responses and summarizing them.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfdtrack/pfdstatus/core/agg"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/internal/outwriter"
	"github.com/pfdtrack/pfdstatus/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// ExecuteAnalyse classifies every report, writes the analysed table, records the run
// and prints the status distribution.
// It serves as the main entry point for the 'analyse' command.
func ExecuteAnalyse(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	out, err := runAnalysis(ctx, cfg, mgr, start)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAnalysis(out, cfg, time.Since(start))
}

// ExecuteRecipients prints the per-recipient table.
func ExecuteRecipients(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	_, c, err := LoadClassification(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRecipients(agg.SummariseRecipients(c.Requests), cfg)
}

// ExecuteYears prints the request-level and report-level year tables.
func ExecuteYears(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	_, c, err := LoadClassification(ctx, cfg)
	if err != nil {
		return err
	}
	years := schema.YearTables{
		Requests:  agg.CountRequestYears(c.Requests),
		Responses: agg.CountResponseYears(c.Reports),
	}
	return outwriter.NewOutWriter().WriteYears(years, cfg)
}

// ExecuteStats prints the snapshot statistics, restricted to the configured window if any.
func ExecuteStats(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	_, c, err := LoadClassification(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteStats(Snapshot(c, cfg), cfg)
}

// Snapshot builds the snapshot statistics, restricted to the configured window if any.
func Snapshot(c *schema.Classification, cfg *contract.Config) schema.SnapshotStats {
	since := cfg.WindowStart()
	if since.IsZero() {
		return agg.BuildSnapshot(c)
	}
	stats := agg.BuildSnapshot(agg.FilterSince(c, since))
	stats.WindowStart = since.Format(schema.DateLayout)
	return stats
}

// ExecuteTrend prints the received percent of the most recent recorded runs, oldest first.
func ExecuteTrend(_ context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if mgr == nil || mgr.GetHistoryStore() == nil {
		return errors.New("history store is not initialized")
	}
	runs, err := mgr.GetHistoryStore().ListRuns(cfg.ResultLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return errors.New("no runs recorded yet, run 'pfdstatus analyse' first")
	}
	return outwriter.NewOutWriter().WriteTrend(runs, cfg)
}
