package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every recorded session",
	Long: `Delete every recorded session from the configured backend.

WARNING: This will delete ALL data. Pass --yes to confirm.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetConfirm bool

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetConfirm, "yes", "y", false, "Confirm deletion")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		return fmt.Errorf("refusing to delete all sessions without --yes")
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		if err := app.Sessions.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All sessions deleted")
		return nil
	})
}
