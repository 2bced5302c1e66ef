// Package cmd defines the command-line interface for devinsight.
package cmd

import (
	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dictionaryCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("output-dir", "o", ".", "Directory for generated report files")
	rootCmd.PersistentFlags().String("filename", "", "Base name for output files without extension (default is timestamped)")
	rootCmd.PersistentFlags().String("ignore", "", "Comma-separated list of file name patterns to skip")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print per-file progress while loading")
	rootCmd.PersistentFlags().Bool("debug", false, "Print merge details for every record")
	rootCmd.PersistentFlags().Bool("export-json", false, "Also write a JSON export next to the workbook")
	rootCmd.PersistentFlags().Int("json-indent", contract.DefaultJSONIndent, "Indentation width for the JSON export")
	rootCmd.PersistentFlags().Bool("export-parquet", false, "Also write commit and contributor parquet files")
	rootCmd.PersistentFlags().String("export-backend", string(schema.NoneBackend), "Worksheet export backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("export-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
