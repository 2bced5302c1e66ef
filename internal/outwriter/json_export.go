package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// emptyWorksheetNote marks worksheets that rendered without data rows.
const emptyWorksheetNote = "No data rows"

// WriteWorksheetJSON writes the worksheets export next to the workbook.
// Absent cells serialize as JSON null so consumers can tell "no value"
// from zero.
func WriteWorksheetJSON(path string, tables []*schema.Table, excelFile string, indent int, generatedAt time.Time) error {
	file, err := contract.SelectOutputFile(path)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}
	return writeWorksheetJSON(file, tables, excelFile, indent, generatedAt)
}

func writeWorksheetJSON(w io.Writer, tables []*schema.Table, excelFile string, indent int, generatedAt time.Time) error {
	export := BuildWorksheetExport(tables, excelFile, generatedAt)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", indent))
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// BuildWorksheetExport assembles the export document from the rendered
// worksheets.
func BuildWorksheetExport(tables []*schema.Table, excelFile string, generatedAt time.Time) *schema.WorksheetExport {
	export := &schema.WorksheetExport{
		Metadata: schema.ExportMetadata{
			GeneratedAt:     generatedAt.UTC().Format(time.RFC3339),
			ExcelFile:       excelFile,
			TotalWorksheets: len(tables),
			Generator:       contract.GeneratorName,
			Version:         contract.Version,
		},
		Worksheets: make(map[string]*schema.WorksheetData, len(tables)),
	}
	for _, t := range tables {
		data := &schema.WorksheetData{
			Headers:     t.Headers,
			Data:        t.Rows,
			RowCount:    t.RowCount(),
			ColumnCount: t.ColumnCount(),
		}
		if data.Data == nil {
			data.Data = [][]any{}
		}
		if t.RowCount() == 0 {
			data.Note = emptyWorksheetNote
		}
		export.Worksheets[t.Name] = data
	}
	return export
}
