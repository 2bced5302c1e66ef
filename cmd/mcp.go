package cmd

import (
	"github.com/huangsam/devinsight/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Developer Insights MCP server",
	Long:  `Launch an MCP server that allows AI agents to generate and query developer insight reports via standard tools.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// Stdio carries the protocol, so setup must not assume a
		// report directory. Tools pass one per request instead.
		return sharedSetup(rootCtx, cmd, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
