package cmd

import (
	"github.com/pfdtrack/pfdstatus/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [reports.csv]",
	Short: "Start the pfdstatus MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents classify reports and
read recipient summaries and snapshot statistics via standard tools.

The optional reports path becomes the default input_path of every tool.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: mcpSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}

// mcpSetupWrapper runs the shared setup only when a default reports path is given;
// otherwise every tool call has to name its input.
func mcpSetupWrapper(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return sharedSetup(rootCtx, cmd, args)
	}
	if err := historySetup(); err != nil {
		return err
	}
	cfg.ResultLimit = viper.GetInt("limit")
	return nil
}
