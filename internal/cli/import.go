package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge sessions from a JSON file",
	Long: `Merge sessions from a JSON file into the configured backend. The file may hold
a plain array of sessions (as saved by the app) or an export snapshot, optionally
gzip-compressed (.gz). Sessions
whose id is already stored are skipped, so importing the same file twice is safe.

Examples:
  sensorystats import browser-sessions.json
  sensorystats import backup.json --backend turso`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := readFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	list, err := decodeSessions(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		result, err := app.Sessions.Import(ctx, list)
		if err != nil {
			return fmt.Errorf("failed to import sessions: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new sessions (%d already present)\n", result.Added, result.Existing)
		if result.Invalid > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d invalid sessions\n", result.Invalid)
		}
		return nil
	})
}

// decodeSessions accepts a JSON array of sessions or an export snapshot.
func decodeSessions(data []byte) ([]*domain.Session, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var list []*domain.Session
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var export domain.Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, err
	}
	return export.Sessions, nil
}
