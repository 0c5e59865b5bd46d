package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every session as JSON",
	Long: `Export a snapshot of every session with its export date and count.

Examples:
  sensorystats export                     # Print to stdout
  sensorystats export -o backup.json      # Write to a file
  sensorystats export -o backup.json.gz   # Write a gzip-compressed file`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		data, err := app.Sessions.ExportAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to export sessions: %w", err)
		}

		if exportOutput == "" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), data)
			return err
		}
		if err := writeFile(exportOutput, []byte(data+"\n")); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", exportOutput)
		return nil
	})
}
