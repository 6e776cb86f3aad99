// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pfdtrack/pfdstatus/internal/contract"
)

// NewMCPServer initializes and configures the pfdstatus MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"PFD Response Status Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: classify_reports ---
	s.AddTool(mcp.NewTool("classify_reports",
		mcp.WithDescription("Classify the response status of every report and explain which rules fired."),
		mcp.WithString("input_path", mcp.Description("Path to the reports CSV (defaults to the configured input).")),
		mcp.WithString("replies_path", mcp.Description("Optional reply log CSV joined onto the reports by ref.")),
		mcp.WithString("as_of", mcp.Description("Reference date (e.g., '2024-06-30', '30/06/2024', '2 weeks ago'). Defaults to today.")),
		mcp.WithString("status", mcp.Description("Only return reports with this response status."),
			mcp.Enum("no requests", "failed", "pending", "overdue", "partial", "completed")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of reports returned.")),
	), h.handleClassifyReports)

	// --- 2. Tool: get_recipient_summary ---
	s.AddTool(mcp.NewTool("get_recipient_summary",
		mcp.WithDescription("Summarise request statuses per recipient, busiest recipients first."),
		mcp.WithString("input_path", mcp.Description("Path to the reports CSV.")),
		mcp.WithString("replies_path", mcp.Description("Optional reply log CSV.")),
		mcp.WithString("as_of", mcp.Description("Reference date. Defaults to today.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of recipients returned.")),
	), h.handleGetRecipientSummary)

	// --- 3. Tool: get_snapshot_stats ---
	s.AddTool(mcp.NewTool("get_snapshot_stats",
		mcp.WithDescription("Compute snapshot statistics of reports sent and requests received."),
		mcp.WithString("input_path", mcp.Description("Path to the reports CSV.")),
		mcp.WithString("replies_path", mcp.Description("Optional reply log CSV.")),
		mcp.WithString("as_of", mcp.Description("Reference date. Defaults to today.")),
		mcp.WithString("window", mcp.Description("Only count reports dated within this lookback (e.g., '1 year', '90 days').")),
	), h.handleGetSnapshotStats)

	return s
}

// StartMCPServer starts the pfdstatus MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
