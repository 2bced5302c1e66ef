// Package core wires the report pipeline: load JSON documents, merge
// them into one aggregate, derive the worksheets and hand them to the
// output surfaces.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/devinsight/core/agg"
	"github.com/huangsam/devinsight/core/metrics"
	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/internal/export"
	"github.com/huangsam/devinsight/internal/ingest"
	"github.com/huangsam/devinsight/internal/outwriter"
	"github.com/huangsam/devinsight/internal/render"
	"github.com/huangsam/devinsight/schema"
)

// ExecutorFunc defines the function signature for executing a command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// BuildReport loads every JSON report under the configured input
// directory, merges the documents and derives the full worksheet set.
// It is shared by the report command and the MCP tool handlers.
func BuildReport(ctx context.Context, cfg *contract.Config, logger *contract.Logger) (*schema.Aggregate, []*schema.Table, *contract.ProcessingResult, error) {
	docs, result, err := ingest.NewLoader().Load(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if result.FilesProcessed == 0 {
		return nil, nil, nil, fmt.Errorf("no usable JSON report files found in %s", cfg.InputDir)
	}

	aggregate := agg.Aggregate(docs, result.Sources)
	logger.Verbosef("merged %d commits, %d repositories, %d pull requests",
		len(aggregate.Commits), len(aggregate.RepoOrder), len(aggregate.PROrder))

	tables := metrics.NewEngine(aggregate).BuildTables(cfg.Workers)
	return aggregate, tables, result, nil
}

// ExecuteReport runs the full pipeline and prints a run summary to
// stdout. It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	logger := contract.NewLogger(cfg.Verbose, cfg.Debug)

	aggregate, tables, result, err := BuildReport(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	base := cfg.OutputBase(start)
	xlsxPath := filepath.Join(cfg.OutputDir, base+".xlsx")
	if err := render.NewWorkbookWriter(logger).Write(xlsxPath, tables, aggregate); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	result.AddOutput(xlsxPath)

	if cfg.ExportJSON {
		jsonPath := filepath.Join(cfg.OutputDir, base+".json")
		if err := outwriter.WriteWorksheetJSON(jsonPath, tables, filepath.Base(xlsxPath), cfg.JSONIndent, start); err != nil {
			return fmt.Errorf("write JSON export: %w", err)
		}
		result.AddOutput(jsonPath)
	}

	if cfg.ExportParquet {
		paths, err := export.WriteParquet(cfg.OutputDir, base, aggregate)
		if err != nil {
			return fmt.Errorf("write parquet export: %w", err)
		}
		for _, p := range paths {
			result.AddOutput(p)
		}
	}

	if cfg.ExportBackend != "" && cfg.ExportBackend != schema.NoneBackend {
		if err := storeWorksheets(ctx, cfg, base, tables); err != nil {
			return fmt.Errorf("database export: %w", err)
		}
		logger.Verbosef("stored %d worksheets in %s", len(tables), cfg.ExportBackend)
	}

	result.Duration = time.Since(start)
	return outwriter.PrintRunSummary(result, tables, cfg)
}

// storeWorksheets opens the configured database backend, stores every
// worksheet under the run id and closes the store.
func storeWorksheets(ctx context.Context, cfg *contract.Config, runID string, tables []*schema.Table) error {
	store, err := export.NewWorksheetStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			contract.LogWarn("closing worksheet store", cerr)
		}
	}()
	return store.Store(ctx, runID, tables)
}

// ExecuteDictionary prints the data dictionary for every worksheet, or
// a single worksheet when one is named.
func ExecuteDictionary(_ context.Context, cfg *contract.Config, tableName string) error {
	return outwriter.PrintDictionary(tableName, cfg)
}
