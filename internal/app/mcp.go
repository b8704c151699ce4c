package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/climatiqq/climatiqq/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server",
	Long: `Start a Model Context Protocol stdio server that assistants can query.
The server exposes four tools:

  predict_suggestions   Suggestions from a user's stored entries
  predict_from_entries  Suggestions for an inline list of entries
  get_impact_stats      Entry counts and per-metric totals for a user
  get_recent_entries    Last N entries for a user

Example MCP client configuration:
  {"mcpServers":{"climatiqq":{"command":"climatiqq","args":["mcp"]}}}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	srv := mcp.NewServer(env.db, env.engine, env.cfg, appVersion)
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
