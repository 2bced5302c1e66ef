// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/devinsight/schema"
)

// DocumentSource loads and parses report documents for aggregation.
// This allows the core pipeline to be tested without touching the
// filesystem.
type DocumentSource interface {
	// Load discovers input files, parses them and returns the parsed
	// documents plus per-run accounting. Parse failures are recorded in
	// the result, not returned as an error; the error is reserved for
	// conditions that make the whole run impossible.
	Load(ctx context.Context, cfg *Config, logger *Logger) ([]schema.Document, *ProcessingResult, error)
}

// WorkbookRenderer writes built tables to a spreadsheet file.
type WorkbookRenderer interface {
	Write(path string, tables []*schema.Table, agg *schema.Aggregate) error
}

// WorksheetStore persists built tables to a database backend.
type WorksheetStore interface {
	// Store writes every table under a run identifier.
	Store(ctx context.Context, runID string, tables []*schema.Table) error

	// Close closes the underlying connection.
	Close() error
}

// ProcessingResult tracks the accounting for one report run.
type ProcessingResult struct {
	FilesProcessed int
	FilesSkipped   int
	FilesFailed    int
	TotalRecords   int
	Errors         []string
	OutputFiles    []string
	Sources        []schema.SourceFileInfo
	Duration       time.Duration
}

// AddError records a per-file failure without aborting the run.
func (r *ProcessingResult) AddError(name string, err error) {
	r.FilesFailed++
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", name, err))
}

// AddOutput records a produced output file for the run summary.
func (r *ProcessingResult) AddOutput(path string) {
	r.OutputFiles = append(r.OutputFiles, path)
}

// MockWorksheetStore is a testify mock for WorksheetStore.
type MockWorksheetStore struct {
	mock.Mock
}

var _ WorksheetStore = &MockWorksheetStore{} // Compile-time check

// Store implements the WorksheetStore interface.
func (m *MockWorksheetStore) Store(ctx context.Context, runID string, tables []*schema.Table) error {
	ret := m.Called(ctx, runID, tables)
	return ret.Error(0)
}

// Close implements the WorksheetStore interface.
func (m *MockWorksheetStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
