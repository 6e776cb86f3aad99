package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pfdtrack/pfdstatus/core/agg"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/internal/outwriter"
	"github.com/pfdtrack/pfdstatus/schema"
)

// ErrCheckFailed is returned when the received percent is below the configured minimum.
var ErrCheckFailed = errors.New("requests received percent is below the minimum")

// ExecuteCheck runs the check command for CI gating.
// It prints the result and returns ErrCheckFailed when the gate does not pass.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	_, c, err := LoadClassification(ctx, cfg)
	if err != nil {
		return err
	}
	result := BuildCheckResult(c, cfg)
	if err := outwriter.NewOutWriter().WriteCheck(result, cfg); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %.1f%% < %.1f%%", ErrCheckFailed, result.ReceivedPercent, result.MinReceived)
	}
	return nil
}

// BuildCheckResult compares the overall received percent against cfg.MinReceived
// and lists the recipients with the most overdue requests.
func BuildCheckResult(c *schema.Classification, cfg *contract.Config) schema.CheckResult {
	counts := agg.CountRequestStatuses(c.Requests)
	received := counts[schema.ReceivedRequest]
	percent := agg.Percent(received, len(c.Requests))

	var overdue []schema.RecipientSummary
	for _, r := range agg.SummariseRecipients(c.Requests) {
		if r.Overdue > 0 {
			overdue = append(overdue, r)
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].Overdue > overdue[j].Overdue
	})
	if cfg.ResultLimit > 0 && len(overdue) > cfg.ResultLimit {
		overdue = overdue[:cfg.ResultLimit]
	}

	return schema.CheckResult{
		Passed:          percent >= cfg.MinReceived,
		ReferenceDate:   c.ReferenceDate.Format(schema.DateLayout),
		MinReceived:     cfg.MinReceived,
		ReceivedPercent: percent,
		Requests:        len(c.Requests),
		Received:        received,
		Overdue:         counts[schema.OverdueRequest],
		MostOverdue:     overdue,
	}
}
