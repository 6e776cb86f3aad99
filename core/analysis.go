package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pfdtrack/pfdstatus/core/agg"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/internal/metrics"
	"github.com/pfdtrack/pfdstatus/internal/table"
	"github.com/pfdtrack/pfdstatus/schema"
)

// LoadClassification reads the reports table, joins the reply log when one is
// configured, and classifies every report against the reference date.
func LoadClassification(ctx context.Context, cfg *contract.Config) (*schema.ReportTable, *schema.Classification, error) {
	reports, err := table.ReadReportsFile(cfg.InputPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RepliesPath != "" {
		replies, err := table.ReadReplyLogFile(cfg.RepliesPath)
		if err != nil {
			return nil, nil, err
		}
		table.JoinReplies(reports, replies)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	c, err := Classify(reports.Reports, cfg.ReferenceDate)
	if err != nil {
		return nil, nil, err
	}
	return reports, c, nil
}

// runAnalysis performs the analyse pipeline up to, but not including, printing.
// The analysed table is written before the run is recorded, so a failed write
// leaves no history behind. History and metrics failures only warn.
func runAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, start time.Time) (*schema.AnalysisOutput, error) {
	reports, c, err := LoadClassification(ctx, cfg)
	if err != nil {
		return nil, err
	}
	out := agg.Analyse(c)

	if err := table.WriteAnalysedFile(cfg.AnalysedFile, reports, c.Reports); err != nil {
		return nil, fmt.Errorf("failed to write analysed table: %w", err)
	}

	if mgr != nil {
		if store := mgr.GetHistoryStore(); store != nil {
			if _, err := store.RecordRun(newRunRecord(out, cfg, start), out.Recipients); err != nil {
				contract.LogWarn("Failed to record run history", err)
			}
		}
	}

	if cfg.MetricsFile != "" {
		collector := metrics.NewRunCollector(out, out.Snapshot.Requests.Received.Percent(), start)
		if err := metrics.WriteTextfile(cfg.MetricsFile, collector); err != nil {
			contract.LogWarn("Failed to write metrics", err)
		}
	}

	return out, nil
}

// newRunRecord describes a run for the history store.
func newRunRecord(out *schema.AnalysisOutput, cfg *contract.Config, start time.Time) schema.HistoryRunRecord {
	record := schema.HistoryRunRecord{
		RunUUID:         uuid.NewString(),
		StartedAt:       start,
		ReferenceDate:   cfg.ReferenceDate,
		TotalReports:    int32(len(out.Classification.Reports)),
		TotalRequests:   int32(len(out.Classification.Requests)),
		ReceivedPercent: out.Snapshot.Requests.Received.Percent(),
	}

	params := map[string]any{
		"input":         cfg.InputPath,
		"replies":       cfg.RepliesPath,
		"analysed_file": cfg.AnalysedFile,
		"as_of":         cfg.ReferenceDate.Format(schema.DateLayout),
	}
	if data, err := json.Marshal(params); err == nil {
		encoded := string(data)
		record.ConfigParams = &encoded
	}
	return record
}
