package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sensorystats/internal/analytics"
	"github.com/emiliopalmerini/sensorystats/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/sensorystats/internal/util"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Compute engagement insights",
	Long: `Compute engagement insights over every recorded session.

Examples:
  sensorystats insights weekly          # Last seven days at a glance
  sensorystats insights themes --json   # Theme rankings as JSON
  sensorystats insights compare         # This week against last week`,
}

var insightsJSON bool

// insightCommands maps subcommands onto the query surface's insight names.
var insightCommands = []struct {
	use     string
	insight string
	short   string
}{
	{"weekly", "weekly-summary", "Summary of the last seven days"},
	{"themes", "themes", "Themes ranked by total touches"},
	{"colors", "colors", "Colors ranked by total touches"},
	{"timing", "timing", "Touches by hour and weekday"},
	{"trends", "trends", "Daily and weekly engagement with trend direction"},
	{"compare", "comparison", "This week compared with the previous week"},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.PersistentFlags().BoolVar(&insightsJSON, "json", false, "Print raw JSON")

	for _, ic := range insightCommands {
		name := ic.insight
		insightsCmd.AddCommand(&cobra.Command{
			Use:   ic.use,
			Short: ic.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runInsight(cmd, name)
			},
		})
	}
}

func runInsight(cmd *cobra.Command, name string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		result, err := app.Surface.Insight(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to compute %s: %w", name, err)
		}
		if insightsJSON {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		return printInsight(cmd.OutOrStdout(), result)
	})
}

func printInsight(w io.Writer, result any) error {
	var out string
	switch v := result.(type) {
	case analytics.WeeklySummary:
		out = renderWeeklySummary(v)
	case []analytics.ThemeRanking:
		out = renderThemeRankings(v)
	case []analytics.ColorEngagement:
		out = renderColorEngagement(v)
	case analytics.TimingPatterns:
		out = renderTimingPatterns(v)
	case analytics.EngagementTrends:
		out = renderEngagementTrends(v)
	case analytics.WeekComparison:
		out = renderWeekComparison(v)
	default:
		return writeJSON(w, result)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func renderWeeklySummary(s analytics.WeeklySummary) string {
	styles := theme.Default()
	title := styles.Title.Render("Weekly Summary")
	if s.Message != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, styles.Muted.Render(s.Message))
	}

	objects := make([]string, len(s.TopObjects))
	for i, o := range s.TopObjects {
		objects[i] = fmt.Sprintf("%s %d", o.Emoji, o.Count)
	}
	rhymes := make([]string, len(s.TopRhymes))
	for i, r := range s.TopRhymes {
		rhymes[i] = fmt.Sprintf("%s (%d)", r.Name, r.Plays)
	}

	rows := []string{
		styles.Row("Sessions", fmt.Sprintf("%d", s.TotalSessions)),
		styles.Row("Touches", util.FormatNumber(int64(s.TotalTouches))),
		styles.Row("Average duration", util.FormatDuration(s.AverageDuration)),
		styles.Row("Favorite theme", s.FavoriteTheme),
		styles.Row("Favorite color", swatch(s.FavoriteColor)+" "+s.FavoriteColor),
		styles.Row("Best time", s.BestTimeOfDay),
		styles.Row("Top objects", orNone(strings.Join(objects, "  "))),
		styles.Row("Top rhymes", orNone(strings.Join(rhymes, ", "))),
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.Card.Render(strings.Join(rows, "\n")))
}

func renderThemeRankings(rankings []analytics.ThemeRanking) string {
	styles := theme.Default()
	lines := []string{styles.Title.Render("Theme Rankings")}
	if len(rankings) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, styles.Muted.Render("No sessions recorded"))...)
	}

	top := rankings[0].Touches
	for i, r := range rankings {
		lines = append(lines, fmt.Sprintf("%2d. %s %s %s",
			i+1,
			styles.Subtitle.Render(fmt.Sprintf("%-10s", r.Theme)),
			bar(r.Touches, top, 24),
			styles.Body.Render(fmt.Sprintf("%d touches in %d sessions", r.Touches, r.Sessions)),
		))
	}
	return strings.Join(lines, "\n")
}

func renderColorEngagement(colors []analytics.ColorEngagement) string {
	styles := theme.Default()
	lines := []string{styles.Title.Render("Color Engagement")}
	if len(colors) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, styles.Muted.Render("No sessions recorded"))...)
	}

	top := colors[0].Touches
	for _, c := range colors {
		lines = append(lines, fmt.Sprintf("%s %-8s %s %s",
			swatch(c.Color),
			c.Color,
			bar(c.Touches, top, 24),
			styles.Body.Render(fmt.Sprintf("%d", c.Touches)),
		))
	}
	return strings.Join(lines, "\n")
}

func renderTimingPatterns(p analytics.TimingPatterns) string {
	styles := theme.Default()
	lines := []string{styles.Title.Render("Timing Patterns"), styles.Row("Best time", p.BestTime), ""}

	hours := slices.Sorted(maps.Keys(p.ByHour))
	maxHour := 0
	for _, h := range hours {
		maxHour = max(maxHour, p.ByHour[h])
	}
	lines = append(lines, styles.Subtitle.Render("By hour"))
	for _, h := range hours {
		lines = append(lines, fmt.Sprintf("  %02d:00 %s %d", h, bar(p.ByHour[h], maxHour, 24), p.ByHour[h]))
	}

	maxDay := 0
	for _, n := range p.ByDayOfWeek {
		maxDay = max(maxDay, n)
	}
	lines = append(lines, "", styles.Subtitle.Render("By weekday"))
	for d := time.Sunday; d <= time.Saturday; d++ {
		n, ok := p.ByDayOfWeek[d.String()]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-9s %s %d", d.String(), bar(n, maxDay, 24), n))
	}
	return strings.Join(lines, "\n")
}

func renderEngagementTrends(t analytics.EngagementTrends) string {
	styles := theme.Default()
	trend := lipgloss.NewStyle().Foreground(theme.TrendColor(t.Trend)).Bold(true).Render(t.Trend)

	lines := []string{
		styles.Title.Render("Engagement Trends"),
		styles.Row("Trend", trend),
		styles.Row("Growth rate", fmt.Sprintf("%+d%%", t.GrowthRate)),
		"",
		styles.Subtitle.Render("Weekly"),
	}
	for _, wk := range t.Weekly {
		lines = append(lines, fmt.Sprintf("  week of %s  %4d touches  %3d sessions  avg %d",
			wk.WeekStart, wk.Touches, wk.Sessions, wk.AvgTouches))
	}
	lines = append(lines, "", styles.Subtitle.Render("Daily"))
	for _, d := range t.Daily {
		lines = append(lines, fmt.Sprintf("  %s  %4d touches  %3d sessions", d.Date, d.Touches, d.Sessions))
	}
	return strings.Join(lines, "\n")
}

func renderWeekComparison(c analytics.WeekComparison) string {
	styles := theme.Default()

	row := func(label string, cur, prev int, d analytics.Delta, unit string) string {
		return styles.Row(label, fmt.Sprintf("%d%s  (was %d%s, %s)", cur, unit, prev, unit, formatDelta(d)))
	}

	lines := []string{
		styles.Title.Render("Week Comparison"),
		row("Sessions", c.CurrentWeek.Sessions, c.PreviousWeek.Sessions, c.Changes.Sessions, ""),
		row("Total touches", c.CurrentWeek.TotalTouches, c.PreviousWeek.TotalTouches, c.Changes.TotalTouches, ""),
		row("Average touches", c.CurrentWeek.AverageTouches, c.PreviousWeek.AverageTouches, c.Changes.AverageTouches, ""),
		row("Completion rate", c.CurrentWeek.CompletionRate, c.PreviousWeek.CompletionRate, c.Changes.CompletionRate, "%"),
		styles.Row("Favorite theme", fmt.Sprintf("%s  (was %s)", c.CurrentWeek.FavoriteTheme, c.PreviousWeek.FavoriteTheme)),
		"",
		styles.Body.Render(c.Summary),
	}
	return strings.Join(lines, "\n")
}

func formatDelta(d analytics.Delta) string {
	styles := theme.Default()
	text := fmt.Sprintf("%+d, %+d%%", d.Change, d.Percent)
	switch {
	case d.Change > 0:
		return styles.Success.Render(text)
	case d.Change < 0:
		return styles.Error.Render(text)
	default:
		return styles.Muted.Render(text)
	}
}

// bar renders value as a horizontal bar scaled against top.
func bar(value, top, width int) string {
	filled := 0
	if top > 0 {
		filled = min(value*width/top, width)
	}
	if value > 0 && filled == 0 {
		filled = 1
	}
	return lipgloss.NewStyle().Foreground(theme.Purple).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.DarkGray).Render(strings.Repeat("░", width-filled))
}

// swatch renders a block in color, or a placeholder when color is not a hex value.
func swatch(color string) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return theme.Default().Muted.Render("?")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("■")
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
