// Package outwriter renders run summaries and secondary exports: the
// terminal summary after a report run, the worksheets JSON export and
// the data dictionary listing.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// PrintRunSummary writes the end-of-run summary to stdout.
func PrintRunSummary(result *contract.ProcessingResult, tables []*schema.Table, cfg *contract.Config) error {
	return WriteRunSummary(os.Stdout, result, tables, cfg)
}

// WriteRunSummary renders the worksheet overview, input counters, the
// first few errors and the written output files.
func WriteRunSummary(w io.Writer, result *contract.ProcessingResult, tables []*schema.Table, cfg *contract.Config) error {
	fmt.Fprintf(w, "%sDeveloper insights report\n", emoji(cfg, "📊 "))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Worksheet", "Rows", "Columns"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, t := range tables {
		data = append(data, []string{t.Name, strconv.Itoa(t.RowCount()), strconv.Itoa(t.ColumnCount())})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Processed %d files (%d skipped, %d failed), %d records in %v with %d workers\n",
		result.FilesProcessed, result.FilesSkipped, result.FilesFailed,
		result.TotalRecords, result.Duration.Round(time.Millisecond), cfg.Workers)

	writeErrorList(w, result.Errors, cfg)

	for _, path := range result.OutputFiles {
		fmt.Fprintf(w, "%sWrote %s\n", emoji(cfg, "💾 "), path)
	}
	return nil
}

// writeErrorList shows the first few load errors and a count of the rest.
func writeErrorList(w io.Writer, errs []string, cfg *contract.Config) {
	if len(errs) == 0 {
		return
	}
	shown := errs
	if len(shown) > contract.MaxErrorsShown {
		shown = shown[:contract.MaxErrorsShown]
	}
	for _, e := range shown {
		fmt.Fprintf(w, "%s%s\n", emoji(cfg, "⚠️  "), warnLabel(cfg, e))
	}
	if rest := len(errs) - len(shown); rest > 0 {
		fmt.Fprintf(w, "   ... and %d more\n", rest)
	}
}

// emoji returns the prefix when emojis are enabled, empty otherwise.
func emoji(cfg *contract.Config, s string) string {
	if cfg.UseEmojis {
		return s
	}
	return ""
}

// warnLabel colors an error line when colors are enabled.
func warnLabel(cfg *contract.Config, s string) string {
	if cfg.UseColors {
		return contract.YellowFlagColor.Sprint(s)
	}
	return s
}

// getMaxTableWidth returns the terminal width to render against,
// honoring the explicit override and falling back to a conservative
// default when detection fails.
func getMaxTableWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80
	}
	return detected
}
