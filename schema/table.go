package schema

// Table is one output worksheet: a name, an ordered header row and rows
// of scalar cells. Cells are string, int, float64, bool or nil; nil
// marks an absent value and renders as an empty spreadsheet cell or a
// JSON null.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// NewTable returns an empty table with the given name and headers.
func NewTable(name string, headers ...string) *Table {
	return &Table{Name: name, Headers: headers}
}

// Append adds one row. Callers are expected to pass one cell per header.
func (t *Table) Append(cells ...any) {
	t.Rows = append(t.Rows, cells)
}

// RowCount returns the number of data rows, excluding the header.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Headers)
}

// WorksheetExport is the JSON re-export of a full report, mirroring the
// workbook sheet for sheet.
type WorksheetExport struct {
	Metadata   ExportMetadata            `json:"metadata"`
	Worksheets map[string]*WorksheetData `json:"worksheets"`
}

// ExportMetadata describes the export run.
type ExportMetadata struct {
	GeneratedAt     string `json:"generated_at"`
	ExcelFile       string `json:"excel_file"`
	TotalWorksheets int    `json:"total_worksheets"`
	Generator       string `json:"generator"`
	Version         string `json:"version"`
}

// WorksheetData is one exported worksheet.
type WorksheetData struct {
	Headers     []string `json:"headers"`
	Data        [][]any  `json:"data"`
	RowCount    int      `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	Note        string   `json:"note,omitempty"`
}
