package cmd

import (
	"github.com/huangsam/devinsight/core"
	"github.com/huangsam/devinsight/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd aggregates JSON reports into the full workbook.
var reportCmd = &cobra.Command{
	Use:   "report [directory]",
	Short: "Generate the developer insights workbook from JSON reports.",
	Long: `Scan a directory of developer activity JSON reports, merge them into one
dataset and write a multi-worksheet Excel report.

The report covers:
- Per-contributor commit, churn and pull request rollups
- Direct-to-main commits and review activity
- Work pattern heatmaps (hour of week, month of year)
- Pull request cycle time, size and multi-author analysis
- Inefficiency flags with an overall risk level per contributor

Examples:
  # Generate a report from the current directory
  devinsight report

  # Generate a report from a specific directory with a fixed name
  devinsight report ./reports --filename q3_insights

  # Also produce JSON and parquet exports
  devinsight report ./reports --export-json --export-parquet

  # Store every worksheet in a local SQLite database
  devinsight report ./reports --export-backend sqlite

  # Skip scratch files and raise concurrency
  devinsight report ./reports --ignore 'draft_*,tmp_*' --workers 8`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot generate report", err)
		}
	},
}
