package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sensorystats/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve sessions and insights to agents over MCP on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout. Register it with an
MCP client as a stdio server, for example:

  {"command": "sensorystats", "args": ["mcp"]}

Logs are written to stderr; stdout carries protocol messages only.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := mcp.NewServer(app.Surface, Version, cmd.InOrStdin(), cmd.OutOrStdout(), app.Logger)
		return server.Serve(ctx)
	})
}
