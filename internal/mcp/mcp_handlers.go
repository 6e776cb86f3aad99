package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pfdtrack/pfdstatus/core"
	"github.com/pfdtrack/pfdstatus/core/agg"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
	now     func() time.Time
}

// classifiedReport is the per-report payload of classify_reports.
type classifiedReport struct {
	Ref         string                `json:"ref"`
	Date        string                `json:"date_of_report"`
	Recipients  []string              `json:"recipients"`
	NumReplies  int                   `json:"no_replies"`
	AgeDays     int                   `json:"age_days"`
	IsDue       bool                  `json:"is_due"`
	Status      schema.ResponseStatus `json:"response_status"`
	Explanation []string              `json:"explanation"`
	Matched     []string              `json:"matched_recipients"`
}

// configFor applies the common tool arguments on top of the base config.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if p := request.GetString("replies_path", ""); p != "" {
		cfg.RepliesPath = p
	}
	if cfg.InputPath == "" {
		return nil, fmt.Errorf("input_path is required")
	}
	if _, err := os.Stat(cfg.InputPath); err != nil {
		return nil, fmt.Errorf("input path %s: %w", cfg.InputPath, err)
	}

	now := time.Now
	if h.now != nil {
		now = h.now
	}
	if s := request.GetString("as_of", ""); s != "" || cfg.ReferenceDate.IsZero() {
		ref, err := contract.ParseReferenceDate(s, now())
		if err != nil {
			return nil, err
		}
		cfg.ReferenceDate = ref
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return cfg, nil
}

func (h *toolHandler) handleClassifyReports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	status := schema.ResponseStatus(request.GetString("status", ""))

	_, c, err := core.LoadClassification(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	results := make([]classifiedReport, 0, len(c.Reports))
	for i := range c.Reports {
		r := &c.Reports[i]
		if status != "" && r.Status != status {
			continue
		}
		results = append(results, classifiedReport{
			Ref:         r.Ref,
			Date:        r.DateRaw,
			Recipients:  r.SentTo,
			NumReplies:  r.NumReplies(),
			AgeDays:     r.AgeDays,
			IsDue:       r.IsDue,
			Status:      r.Status,
			Explanation: core.ExplainResponse(r),
			Matched:     r.Matched,
		})
		if cfg.ResultLimit > 0 && len(results) >= cfg.ResultLimit {
			break
		}
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRecipientSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	_, c, err := core.LoadClassification(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	recipients := agg.SummariseRecipients(c.Requests)
	if cfg.ResultLimit > 0 && len(recipients) > cfg.ResultLimit {
		recipients = recipients[:cfg.ResultLimit]
	}

	jsonData, _ := json.MarshalIndent(recipients, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSnapshotStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if w := request.GetString("window", ""); w != "" {
		window, err := contract.ParseLookbackDuration(w)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
		}
		cfg.Window = window
	}

	_, c, err := core.LoadClassification(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(core.Snapshot(c, cfg), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
