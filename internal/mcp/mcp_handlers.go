package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/devinsight/core"
	"github.com/huangsam/devinsight/core/metrics"
	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/internal/outwriter"
	"github.com/huangsam/devinsight/internal/render"
	"github.com/huangsam/devinsight/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// reportConfig clones the base config and applies per-request overrides.
func (h *toolHandler) reportConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()

	dir := strings.TrimSpace(request.GetString("directory", ""))
	if dir == "" {
		return nil, fmt.Errorf("directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", dir)
	}
	cfg.InputDir = dir

	if w := request.GetInt("workers", 0); w > 0 {
		cfg.Workers = w
	}
	if cfg.Workers <= 0 {
		cfg.Workers = contract.DefaultWorkers
	}
	return cfg, nil
}

func (h *toolHandler) handleGenerateReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}
	if o := request.GetString("output_dir", ""); o != "" {
		cfg.OutputDir = o
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if n := request.GetString("filename", ""); n != "" {
		cfg.OutputName = strings.TrimSuffix(n, filepath.Ext(n))
	}
	exportJSON := request.GetBool("export_json", cfg.ExportJSON)

	start := time.Now()
	logger := contract.NewLogger(cfg.Verbose, cfg.Debug)
	aggregate, tables, result, err := core.BuildReport(ctx, cfg, logger)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report generation failed: %v", err)), nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("create output directory failed: %v", err)), nil
	}

	base := cfg.OutputBase(start)
	xlsxPath := filepath.Join(cfg.OutputDir, base+".xlsx")
	if err := render.NewWorkbookWriter(logger).Write(xlsxPath, tables, aggregate); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write workbook failed: %v", err)), nil
	}
	result.AddOutput(xlsxPath)

	if exportJSON {
		jsonPath := filepath.Join(cfg.OutputDir, base+".json")
		if err := outwriter.WriteWorksheetJSON(jsonPath, tables, filepath.Base(xlsxPath), cfg.JSONIndent, start); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("write JSON export failed: %v", err)), nil
		}
		result.AddOutput(jsonPath)
	}

	type worksheetSummary struct {
		Name string `json:"name"`
		Rows int    `json:"rows"`
	}
	summaries := make([]worksheetSummary, 0, len(tables))
	for _, t := range tables {
		summaries = append(summaries, worksheetSummary{Name: t.Name, Rows: len(t.Rows)})
	}

	payload := struct {
		ExcelFile      string             `json:"excel_file"`
		OutputFiles    []string           `json:"output_files"`
		FilesProcessed int                `json:"files_processed"`
		FilesSkipped   int                `json:"files_skipped"`
		FilesFailed    int                `json:"files_failed"`
		TotalRecords   int                `json:"total_records"`
		Errors         []string           `json:"errors,omitempty"`
		Worksheets     []worksheetSummary `json:"worksheets"`
	}{
		ExcelFile:      xlsxPath,
		OutputFiles:    result.OutputFiles,
		FilesProcessed: result.FilesProcessed,
		FilesSkipped:   result.FilesSkipped,
		FilesFailed:    result.FilesFailed,
		TotalRecords:   result.TotalRecords,
		Errors:         result.Errors,
		Worksheets:     summaries,
	}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetWorksheet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(request.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	if !isKnownWorksheet(name) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown worksheet %q, valid names: %s", name, strings.Join(schema.TableOrder, ", "))), nil
	}

	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	logger := contract.NewLogger(cfg.Verbose, cfg.Debug)
	_, tables, _, err := core.BuildReport(ctx, cfg, logger)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report generation failed: %v", err)), nil
	}

	for _, t := range tables {
		if t.Name != name {
			continue
		}
		data := t.Rows
		if data == nil {
			data = [][]any{}
		}
		payload := struct {
			Name string `json:"name"`
			schema.WorksheetData
		}{
			Name: t.Name,
			WorksheetData: schema.WorksheetData{
				Headers:     t.Headers,
				Data:        data,
				RowCount:    len(t.Rows),
				ColumnCount: len(t.Headers),
			},
		}
		jsonData, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("worksheet %q was not generated", name)), nil
}

func (h *toolHandler) handleListWorksheets(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// An empty aggregate yields every worksheet with its real column
	// layout, so the listing never drifts from the builders.
	tables := metrics.NewEngine(schema.NewAggregate()).BuildTables(1)

	type columnInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Source      string `json:"source"`
	}
	type worksheetInfo struct {
		Name    string       `json:"name"`
		Columns []columnInfo `json:"columns"`
	}

	infos := make([]worksheetInfo, 0, len(tables))
	for _, t := range tables {
		cols := make([]columnInfo, 0, len(t.Headers))
		for _, header := range t.Headers {
			doc := schema.DescribeColumn(t.Name, header)
			cols = append(cols, columnInfo{Name: header, Description: doc.Description, Source: doc.Source})
		}
		infos = append(infos, worksheetInfo{Name: t.Name, Columns: cols})
	}

	jsonData, _ := json.MarshalIndent(infos, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func isKnownWorksheet(name string) bool {
	for _, t := range schema.TableOrder {
		if t == name {
			return true
		}
	}
	return false
}
