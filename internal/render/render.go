// Package render writes the report workbook. One worksheet per built
// table, plus a dashboard overview and the data dictionary.
package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// Sheet names reserved for the non-data worksheets.
const (
	dashboardSheet  = "Dashboard"
	dictionarySheet = "Data Dictionary"
)

// Column width bounds, in Excel character units.
const (
	minColWidth = 10
	maxColWidth = 50
)

// WorkbookWriter renders tables into an Excel workbook.
type WorkbookWriter struct {
	logger *contract.Logger
}

var _ contract.WorkbookRenderer = (*WorkbookWriter)(nil)

// NewWorkbookWriter returns a renderer that logs progress through the
// given logger.
func NewWorkbookWriter(logger *contract.Logger) *WorkbookWriter {
	return &WorkbookWriter{logger: logger}
}

// Write renders every table into its own worksheet and saves the
// workbook at path.
func (w *WorkbookWriter) Write(path string, tables []*schema.Table, agg *schema.Aggregate) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := newStyleSet(f)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", dashboardSheet); err != nil {
		return err
	}
	if err := writeDashboard(f, styles, tables, agg); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	for _, t := range tables {
		if err := writeTableSheet(f, styles, t); err != nil {
			return fmt.Errorf("worksheet %s: %w", t.Name, err)
		}
		w.logger.Debugf("rendered worksheet %s (%d rows)", t.Name, t.RowCount())
	}

	if err := writeDictionarySheet(f, styles, tables); err != nil {
		return fmt.Errorf("data dictionary: %w", err)
	}

	index, err := f.GetSheetIndex(dashboardSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	return f.SaveAs(path)
}

// styleSet holds the style ids shared across worksheets.
type styleSet struct {
	header   int
	redCell  int
	warnCell int
	okCell   int
	title    int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	s := &styleSet{}
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	if s.redCell, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	}); err != nil {
		return nil, err
	}
	if s.warnCell, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C6500"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFEB9C"}},
	}); err != nil {
		return nil, err
	}
	if s.okCell, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "006100"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
	}); err != nil {
		return nil, err
	}
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// writeTableSheet renders one table: styled header, data rows, frozen
// header row, auto-filter and fitted column widths.
func writeTableSheet(f *excelize.File, styles *styleSet, t *schema.Table) error {
	if _, err := f.NewSheet(t.Name); err != nil {
		return err
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(t.ColumnCount())
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Name, "A1", lastCol+"1", styles.header); err != nil {
		return err
	}
	if err := f.SetPanes(t.Name, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}
	if t.RowCount() > 0 {
		ref := fmt.Sprintf("A1:%s%d", lastCol, t.RowCount()+1)
		if err := f.AutoFilter(t.Name, ref, nil); err != nil {
			return err
		}
	}
	if err := fitColumns(f, t); err != nil {
		return err
	}
	return colorStatusCells(f, styles, t)
}

// fitColumns sizes each column to its longest value, within bounds.
func fitColumns(f *excelize.File, t *schema.Table) error {
	for i, h := range t.Headers {
		width := len(h)
		for _, row := range t.Rows {
			if i >= len(row) || row[i] == nil {
				continue
			}
			if n := len(fmt.Sprint(row[i])); n > width {
				width = n
			}
		}
		width += 2
		if width < minColWidth {
			width = minColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.Name, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// colorStatusCells applies traffic-light fills to flag and risk level
// columns.
func colorStatusCells(f *excelize.File, styles *styleSet, t *schema.Table) error {
	for i, h := range t.Headers {
		if !strings.HasSuffix(h, "_Flag") && h != "Overall_Risk_Level" {
			continue
		}
		for r, row := range t.Rows {
			if i >= len(row) {
				continue
			}
			value, ok := row[i].(string)
			if !ok {
				continue
			}
			style, ok := statusStyle(styles, value)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(t.Name, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func statusStyle(styles *styleSet, value string) (int, bool) {
	switch value {
	case string(schema.RedFlag), string(schema.RiskHigh):
		return styles.redCell, true
	case string(schema.YellowFlag), string(schema.RiskMedium), string(schema.RiskLow):
		return styles.warnCell, true
	case string(schema.GreenFlag), string(schema.RiskNone):
		return styles.okCell, true
	}
	return 0, false
}

// writeDashboard fills the overview sheet with run-level counters and a
// worksheet directory.
func writeDashboard(f *excelize.File, styles *styleSet, tables []*schema.Table, agg *schema.Aggregate) error {
	if err := f.SetCellValue(dashboardSheet, "A1", "Developer Insights Report"); err != nil {
		return err
	}
	if err := f.SetCellStyle(dashboardSheet, "A1", "A1", styles.title); err != nil {
		return err
	}

	counters := [][]any{
		{"Total Commits", len(agg.Commits)},
		{"Repositories", len(agg.RepoOrder)},
		{"Pull Requests", len(agg.PROrder)},
		{"Contributors", countContributors(agg)},
		{"Source Files", len(agg.Sources)},
	}
	for i, row := range counters {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(dashboardSheet, cell, &row); err != nil {
			return err
		}
	}

	start := len(counters) + 4
	dirHeader := []any{"Worksheet", "Rows"}
	cell, err := excelize.CoordinatesToCellName(1, start)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(dashboardSheet, cell, &dirHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(dashboardSheet, cell, fmt.Sprintf("B%d", start), styles.header); err != nil {
		return err
	}
	for i, t := range tables {
		cell, err := excelize.CoordinatesToCellName(1, start+1+i)
		if err != nil {
			return err
		}
		row := []any{t.Name, t.RowCount()}
		if err := f.SetSheetRow(dashboardSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(dashboardSheet, "A", "A", 30); err != nil {
		return err
	}
	return f.SetColWidth(dashboardSheet, "B", "B", 14)
}

// countContributors returns distinct user ids across commits and
// insights.
func countContributors(agg *schema.Aggregate) int {
	ids := make(map[string]struct{})
	for i := range agg.Commits {
		ids[agg.Commits[i].UserID] = struct{}{}
	}
	for _, id := range agg.InsightOrder {
		ids[id] = struct{}{}
	}
	return len(ids)
}

// writeDictionarySheet renders the column documentation for every
// worksheet in the workbook.
func writeDictionarySheet(f *excelize.File, styles *styleSet, tables []*schema.Table) error {
	if _, err := f.NewSheet(dictionarySheet); err != nil {
		return err
	}
	header := []any{"Worksheet", "Column", "Description", "Source", "Formula"}
	if err := f.SetSheetRow(dictionarySheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(dictionarySheet, "A1", "E1", styles.header); err != nil {
		return err
	}

	rowIdx := 2
	for _, t := range tables {
		for _, column := range t.Headers {
			doc := schema.DescribeColumn(t.Name, column)
			row := []any{t.Name, column, doc.Description, doc.Source, doc.Formula}
			cell, err := excelize.CoordinatesToCellName(1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(dictionarySheet, cell, &row); err != nil {
				return err
			}
			rowIdx++
		}
	}
	if err := f.SetPanes(dictionarySheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}
	if err := f.SetColWidth(dictionarySheet, "A", "B", 26); err != nil {
		return err
	}
	return f.SetColWidth(dictionarySheet, "C", "E", 52)
}
