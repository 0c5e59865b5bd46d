package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/sensorystats/internal/util"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List, inspect, record and delete sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	Long: `List recorded sessions, newest first.

Examples:
  sensorystats sessions list             # Every session
  sensorystats sessions list --limit 10  # Ten most recent
  sensorystats sessions list --json      # Raw JSON`,
	Args: cobra.NoArgs,
	RunE: runSessionsList,
}

var sessionsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List sessions from the last N days",
	Args:  cobra.NoArgs,
	RunE:  runSessionsRecent,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsCreateCmd = &cobra.Command{
	Use:   "create [json]",
	Short: "Record a new session",
	Long: `Record a new session. The session JSON is read from the argument, or from
stdin when no argument is given. Every field except id and timestamp is required.

Example:
  echo '{"theme":"Ocean","duration":600,"touches":80,"colorCounts":{},"objectCounts":{},
        "nurseryRhymesPlayed":[],"streaks":3,"milestones":[10,25],"completedFull":true}' \
    | sensorystats sessions create`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsCreate,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

// Flags
var (
	sessionsLimit int
	sessionsDays  int
	sessionsJSON  bool
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsRecentCmd, sessionsShowCmd, sessionsCreateCmd, sessionsDeleteCmd)

	sessionsListCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 0, "Maximum number of sessions (0 for all)")
	sessionsRecentCmd.Flags().IntVarP(&sessionsDays, "days", "d", 7, "Look-back window in days")
	sessionsCmd.PersistentFlags().BoolVar(&sessionsJSON, "json", false, "Print raw JSON")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		list, err := app.Sessions.List(ctx, sessionsLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		return printSessions(cmd.OutOrStdout(), list, sessionsJSON, sessionLocation(app))
	})
}

func runSessionsRecent(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		list, err := app.Sessions.Recent(ctx, sessionsDays)
		if err != nil {
			return fmt.Errorf("failed to list recent sessions: %w", err)
		}
		return printSessions(cmd.OutOrStdout(), list, sessionsJSON, sessionLocation(app))
	})
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		session, err := app.Sessions.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		if session == nil {
			return fmt.Errorf("session %s not found", args[0])
		}
		return writeJSON(cmd.OutOrStdout(), session)
	})
}

func runSessionsCreate(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	req, err := domain.ParseCreateSessionRequest(data)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		created, err := app.Sessions.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), created)
	})
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		removed, err := app.Sessions.Remove(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if !removed {
			return fmt.Errorf("session %s not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
		return nil
	})
}

// readInput returns the first argument, or all of r when there is none.
func readInput(r io.Reader, args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	if f, ok := r.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return nil, fmt.Errorf("no session JSON given: pass it as an argument or pipe it on stdin")
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

func sessionLocation(app *AppContext) *time.Location {
	loc, err := app.Config.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

func printSessions(w io.Writer, list []*domain.Session, asJSON bool, loc *time.Location) error {
	if asJSON {
		if list == nil {
			list = []*domain.Session{}
		}
		return writeJSON(w, list)
	}

	styles := theme.Default()
	if len(list) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No sessions recorded"))
		return nil
	}

	fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("Sessions (%d)", len(list))))
	for _, s := range list {
		fmt.Fprintln(w, formatSessionLine(s, loc))
	}
	return nil
}

func formatSessionLine(s *domain.Session, loc *time.Location) string {
	styles := theme.Default()

	status := styles.Warning.Render("partial")
	if s.CompletedFull {
		status = styles.Success.Render("complete")
	}

	fields := []string{
		styles.Muted.Render(util.FormatTimestamp(s.Timestamp, loc)),
		styles.Subtitle.Render(fmt.Sprintf("%-10s", s.Theme)),
		styles.Body.Render(fmt.Sprintf("%5s touches", util.FormatNumber(int64(s.Touches)))),
		styles.Body.Render(fmt.Sprintf("%8s", util.FormatDuration(s.Duration))),
		status,
		styles.Muted.Render(s.ID),
	}
	return strings.Join(fields, "  ")
}
