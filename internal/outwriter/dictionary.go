package outwriter

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/huangsam/devinsight/core/metrics"
	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintDictionary writes the data dictionary to stdout, either for one
// worksheet or for all of them.
func PrintDictionary(tableName string, cfg *contract.Config) error {
	return WriteDictionary(os.Stdout, tableName, cfg)
}

// WriteDictionary renders the column documentation for the selected
// worksheets. Columns come from the table builders themselves, run over
// an empty aggregate, so the listing never drifts from the output.
func WriteDictionary(w io.Writer, tableName string, cfg *contract.Config) error {
	if tableName != "" && !slices.Contains(schema.TableOrder, tableName) {
		return fmt.Errorf("unknown worksheet %q, expected one of %v", tableName, schema.TableOrder)
	}

	width := getMaxTableWidth(cfg)
	for _, tbl := range metrics.NewEngine(schema.NewAggregate()).BuildTables(1) {
		if tableName != "" && tbl.Name != tableName {
			continue
		}
		fmt.Fprintf(w, "%s%s\n", emoji(cfg, "📖 "), tbl.Name)
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Column", "Description", "Source"})

		var data [][]string
		for _, column := range tbl.Headers {
			doc := schema.DescribeColumn(tbl.Name, column)
			data = append(data, []string{
				column,
				contract.TruncatePath(doc.Description, width/2),
				contract.TruncatePath(doc.Source, width/3),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}
