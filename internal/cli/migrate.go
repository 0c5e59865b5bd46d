package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sensorystats/internal/infrastructure/config"
	"github.com/emiliopalmerini/sensorystats/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations against the Turso backend.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  sensorystats migrate --backend turso      # Run all pending migrations
  sensorystats migrate --backend turso 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	target := -1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		target = v
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		if app.DB == nil {
			return fmt.Errorf("migrations apply only to the %s backend (current: %s)", config.BackendTurso, app.Config.Backend)
		}

		m := migrate.New(app.DB, app.Logger)
		before, _, err := m.CurrentVersion(ctx)
		if err != nil {
			// schema_migrations may not exist yet.
			before = 0
		}

		after, err := m.MigrateTo(ctx, target)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if after == before {
			fmt.Fprintf(out, "Already at version %d\n", after)
			return nil
		}
		fmt.Fprintf(out, "Migrated from version %d to %d\n", before, after)
		return nil
	})
}
