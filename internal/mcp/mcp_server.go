// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Developer Insights MCP server
// without starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Developer Insights Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: generate_report ---
	s.AddTool(mcp.NewTool("generate_report",
		mcp.WithDescription("Aggregate developer activity JSON reports into an Excel workbook and return run metadata."),
		mcp.WithString("directory", mcp.Description("Directory containing JSON report files."), mcp.Required()),
		mcp.WithString("output_dir", mcp.Description("Directory for generated report files (defaults to the configured output directory).")),
		mcp.WithString("filename", mcp.Description("Base name for output files without extension (defaults to a timestamped name).")),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent workers for worksheet generation.")),
		mcp.WithBoolean("export_json", mcp.Description("Also write a JSON export next to the workbook.")),
	), h.handleGenerateReport)

	// --- 2. Tool: get_worksheet ---
	s.AddTool(mcp.NewTool("get_worksheet",
		mcp.WithDescription("Aggregate developer activity JSON reports and return a single worksheet as JSON."),
		mcp.WithString("directory", mcp.Description("Directory containing JSON report files."), mcp.Required()),
		mcp.WithString("name", mcp.Description("Worksheet name, e.g. 'Contributor Analysis' or 'Inefficiency Flags'."), mcp.Required()),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent workers for worksheet generation.")),
	), h.handleGetWorksheet)

	// --- 3. Tool: list_worksheets ---
	s.AddTool(mcp.NewTool("list_worksheets",
		mcp.WithDescription("List every report worksheet with its column layout and column documentation."),
	), h.handleListWorksheets)

	return s
}

// StartMCPServer starts the Developer Insights MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
