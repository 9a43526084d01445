package cmd

import (
	"github.com/huangsam/roomspot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Roomspot MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents find free rooms via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Search headers are suppressed per request by the MCP handlers
		// so that stdio stays reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager, newRoomInfoClient())
	},
}
