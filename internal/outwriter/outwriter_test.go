package outwriter

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryConfig() *contract.Config {
	return &contract.Config{Workers: 2, Width: 100}
}

func TestWriteRunSummary(t *testing.T) {
	tbl := schema.NewTable("Contributor Analysis", "userId")
	tbl.Append("alice")
	result := &contract.ProcessingResult{
		FilesProcessed: 3,
		FilesSkipped:   1,
		TotalRecords:   42,
		Duration:       1500 * time.Millisecond,
		OutputFiles:    []string{"out/report.xlsx"},
	}

	var buf bytes.Buffer
	err := WriteRunSummary(&buf, result, []*schema.Table{tbl}, summaryConfig())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Contributor Analysis")
	assert.Contains(t, out, "Processed 3 files (1 skipped, 0 failed), 42 records")
	assert.Contains(t, out, "Wrote out/report.xlsx")

	// Emojis stay off unless requested.
	assert.NotContains(t, out, "📊")
}

func TestWriteRunSummaryErrorTruncation(t *testing.T) {
	result := &contract.ProcessingResult{FilesProcessed: 1}
	for i := range 8 {
		result.AddError(fmt.Sprintf("bad-%d.json", i), fmt.Errorf("parse failure"))
	}

	var buf bytes.Buffer
	err := WriteRunSummary(&buf, result, nil, summaryConfig())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "bad-0.json")
	assert.Contains(t, out, "bad-4.json")
	assert.NotContains(t, out, "bad-5.json")
	assert.Contains(t, out, "... and 3 more")
}

func TestWriteDictionary(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDictionary(&buf, schema.TableWorkPatterns, summaryConfig())
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Work Patterns")
	assert.Contains(t, out, "Peak_Hour")
	assert.NotContains(t, out, "Repository Summary")
}

func TestWriteDictionaryUnknownTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDictionary(&buf, "Nope", summaryConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown worksheet")
}
