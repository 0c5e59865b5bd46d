package analytics

import (
	"fmt"
	"time"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

const (
	firstWeekSummary = "This is the first week of tracked sessions. Keep playing to see comparisons!"
	steadySummary    = "Steady engagement compared to last week."
)

// CompareWeeks compares the seven days before now with the seven days before
// that. The previous window excludes its upper bound.
func CompareWeeks(sessions []*domain.Session, now time.Time) WeekComparison {
	currentFrom := now.UnixMilli() - weekMillis
	previousFrom := currentFrom - weekMillis

	var current, previous []*domain.Session
	for _, s := range sessions {
		switch {
		case s.Timestamp >= currentFrom:
			current = append(current, s)
		case s.Timestamp >= previousFrom:
			previous = append(previous, s)
		}
	}

	cur, prev := weekStats(current), weekStats(previous)
	cmp := WeekComparison{
		CurrentWeek:  cur,
		PreviousWeek: prev,
		Changes: WeekChanges{
			Sessions:       delta(cur.Sessions, prev.Sessions),
			TotalTouches:   delta(cur.TotalTouches, prev.TotalTouches),
			AverageTouches: delta(cur.AverageTouches, prev.AverageTouches),
			CompletionRate: delta(cur.CompletionRate, prev.CompletionRate),
		},
	}
	cmp.Summary = comparisonSummary(cmp)
	return cmp
}

func weekStats(sessions []*domain.Session) WeekStats {
	stats := WeekStats{
		Sessions:      len(sessions),
		TotalTouches:  totalTouches(sessions),
		FavoriteTheme: MostFrequent(themesOf(sessions)),
	}
	if stats.Sessions == 0 {
		return stats
	}

	completed := 0
	for _, s := range sessions {
		if s.CompletedFull {
			completed++
		}
	}
	stats.AverageTouches = roundHalfUp(float64(stats.TotalTouches) / float64(stats.Sessions))
	stats.CompletionRate = roundHalfUp(100 * float64(completed) / float64(stats.Sessions))
	return stats
}

// delta reports percent as 0 when the previous value is 0.
func delta(current, previous int) Delta {
	d := Delta{Change: current - previous}
	if previous != 0 {
		d.Percent = roundHalfUp(100 * float64(d.Change) / float64(previous))
	}
	return d
}

func comparisonSummary(c WeekComparison) string {
	if c.PreviousWeek.Sessions == 0 {
		return firstWeekSummary
	}

	switch p := c.Changes.TotalTouches.Percent; {
	case p > comparisonThreshold:
		return fmt.Sprintf("Engagement is up %d%% compared to last week!", p)
	case p < -comparisonThreshold:
		return fmt.Sprintf("Engagement is down %d%% compared to last week.", -p)
	default:
		return steadySummary
	}
}
