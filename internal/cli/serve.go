package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sensorystats/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API for sessions and insights.

Examples:
  sensorystats serve                  # Listen on SENSORYSTATS_HTTP_ADDR (default :8080)
  sensorystats serve --addr :3000     # Listen on port 3000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides SENSORYSTATS_HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr := app.Config.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		server := web.NewServer(addr, app.Sessions, app.Surface, app.Logger)
		return server.Start(ctx)
	})
}
