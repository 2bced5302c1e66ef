package cmd

import (
	"github.com/huangsam/devinsight/core"
	"github.com/huangsam/devinsight/internal/contract"
	"github.com/spf13/cobra"
)

// dictionaryCmd prints column documentation for the report worksheets.
var dictionaryCmd = &cobra.Command{
	Use:   "dictionary [worksheet]",
	Short: "Show the data dictionary for report worksheets.",
	Long: `Print every worksheet column with its description, data source and formula.

Without arguments the full dictionary is shown. Pass a worksheet name to
limit the output, e.g.:

  devinsight dictionary
  devinsight dictionary "Contributor Analysis"
  devinsight dictionary "Inefficiency Flags"`,
	Args: cobra.MaximumNArgs(1),
	// The positional argument names a worksheet, not a report directory.
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		tableName := ""
		if len(args) == 1 {
			tableName = args[0]
		}
		if err := core.ExecuteDictionary(rootCtx, cfg, tableName); err != nil {
			contract.LogFatal("Cannot show dictionary", err)
		}
	},
}
