package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sensorystats/internal/analytics"
	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/pkg/tui/theme"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load five sample sessions",
	Long: `Load five sample sessions spread over the last week, for trying out the
insights and the MCP server without real data. Samples already present are
skipped.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		samples := sampleSessions(app.Sessions.Now())
		result, err := app.Sessions.Import(ctx, samples)
		if err != nil {
			return fmt.Errorf("failed to seed sessions: %w", err)
		}

		w := cmd.OutOrStdout()
		styles := theme.Default()
		fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("Seeded %d sample sessions", result.Added)))
		for _, s := range samples {
			fmt.Fprintln(w, formatSessionLine(s, sessionLocation(app)))
		}

		total := 0
		for _, s := range samples {
			total += s.Touches
		}
		themes := analytics.ComputeThemeRankings(samples)
		colors := analytics.ComputeColorEngagement(samples)

		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Subtitle.Render("Expected insights"))
		fmt.Fprintln(w, styles.Row("Total sessions", fmt.Sprintf("%d", len(samples))))
		fmt.Fprintln(w, styles.Row("Total touches", fmt.Sprintf("%d", total)))
		fmt.Fprintln(w, styles.Row("Favorite theme", fmt.Sprintf("%s (%d touches)", themes[0].Theme, themes[0].Touches)))
		fmt.Fprintln(w, styles.Row("Favorite color", fmt.Sprintf("%s (%d touches)", colors[0].Color, colors[0].Touches)))
		return nil
	})
}

// sampleSessions returns the demo data set, timestamped relative to now.
func sampleSessions(now time.Time) []*domain.Session {
	ago := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }
	day := 24 * time.Hour

	return []*domain.Session{
		{
			ID:        "session-001",
			Timestamp: ago(7 * day),
			Theme:     "Ocean",
			Duration:  1200,
			Touches:   156,
			ColorCounts: map[string]int{
				"#4ECDC4": 45, "#0088FF": 38, "#AADDFF": 32, "#00FFFF": 25, "#004488": 16,
			},
			ObjectCounts:        map[string]int{"🐟": 48, "🫧": 35, "🌊": 28},
			NurseryRhymesPlayed: []string{"Twinkle Twinkle", "Row Row Row Your Boat"},
			Streaks:             12,
			Milestones:          []int{10, 25, 50, 100, 150},
			CompletedFull:       true,
		},
		{
			ID:        "session-002",
			Timestamp: ago(5 * day),
			Theme:     "Space",
			Duration:  1200,
			Touches:   189,
			ColorCounts: map[string]int{
				"#8800FF": 52, "#0088FF": 45, "#FFDD00": 38, "#FF00FF": 32, "#AADDFF": 22,
			},
			ObjectCounts:        map[string]int{"⭐": 64, "🪐": 42, "✨": 38},
			NurseryRhymesPlayed: []string{"Twinkle Twinkle", "Baa Baa Black Sheep", "Twinkle Twinkle"},
			Streaks:             15,
			Milestones:          []int{10, 25, 50, 100, 150},
			CompletedFull:       true,
		},
		{
			ID:        "session-003",
			Timestamp: ago(3 * day),
			Theme:     "Garden",
			Duration:  1200,
			Touches:   203,
			ColorCounts: map[string]int{
				"#FF44FF": 58, "#FFDD00": 48, "#00FF88": 42, "#88FF44": 35, "#FF88CC": 20,
			},
			ObjectCounts:        map[string]int{"🌸": 72, "🦋": 68, "✨": 32},
			NurseryRhymesPlayed: []string{"Mary Had a Little Lamb", "Baa Baa Black Sheep"},
			Streaks:             18,
			Milestones:          []int{10, 25, 50, 100, 150, 200},
			CompletedFull:       true,
		},
		{
			ID:        "session-004",
			Timestamp: ago(day),
			Theme:     "Rainbow",
			Duration:  900,
			Touches:   142,
			ColorCounts: map[string]int{
				"#FF0000": 28, "#FF8800": 26, "#FFDD00": 25, "#00FF00": 22, "#0088FF": 20, "#8800FF": 21,
			},
			ObjectCounts:        map[string]int{"🔷": 58, "🌊": 42, "✨": 35},
			NurseryRhymesPlayed: []string{"Twinkle Twinkle"},
			Streaks:             10,
			Milestones:          []int{10, 25, 50, 100},
			CompletedFull:       false,
		},
		{
			ID:        "session-005",
			Timestamp: ago(12 * time.Hour),
			Theme:     "Space",
			Duration:  1200,
			Touches:   178,
			ColorCounts: map[string]int{
				"#8800FF": 48, "#FF00FF": 42, "#FFDD00": 35, "#0088FF": 32, "#AADDFF": 21,
			},
			ObjectCounts:        map[string]int{"⭐": 68, "🪐": 55, "✨": 42},
			NurseryRhymesPlayed: []string{"Twinkle Twinkle", "Twinkle Twinkle", "Mary Had a Little Lamb"},
			Streaks:             14,
			Milestones:          []int{10, 25, 50, 100, 150},
			CompletedFull:       true,
		},
	}
}
