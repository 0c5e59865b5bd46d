package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "sensorystats",
	Short: "Session storage and analytics for the baby sensory app",
	Long: `sensorystats records play sessions from the baby sensory app and answers
analytical questions about them: weekly summaries, favorite themes and colors,
time-of-day patterns, engagement trends and week-over-week comparisons.

Sessions live in a local JSON file by default, or in a Turso database.
Insights are available from the command line, over HTTP (serve) and to
agents over MCP on stdio (mcp).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Global flags, applied over the environment configuration.
var (
	flagBackend  string
	flagFile     string
	flagLogLevel string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: file or turso (default from SENSORYSTATS_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "Sessions file for the file backend (default ~/.baby-sensory-sessions.json)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}
