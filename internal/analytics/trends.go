package analytics

import (
	"maps"
	"slices"
	"time"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

const dateLayout = "2006-01-02"

// weekStart returns the local Sunday that begins t's calendar week.
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// ComputeEngagementTrends buckets sessions by local day and Sunday-start week, in
// chronological order, and classifies the change between the last two weeks.
func ComputeEngagementTrends(sessions []*domain.Session, loc *time.Location) EngagementTrends {
	daily := map[string]*DailyEngagement{}
	weekly := map[string]*WeeklyEngagement{}

	for _, s := range sessions {
		t := localTime(s.Timestamp, loc)

		day := t.Format(dateLayout)
		if daily[day] == nil {
			daily[day] = &DailyEngagement{Date: day}
		}
		daily[day].Touches += s.Touches
		daily[day].Sessions++

		week := weekStart(t).Format(dateLayout)
		if weekly[week] == nil {
			weekly[week] = &WeeklyEngagement{WeekStart: week}
		}
		weekly[week].Touches += s.Touches
		weekly[week].Sessions++
	}

	trends := EngagementTrends{
		Daily:  make([]DailyEngagement, 0, len(daily)),
		Weekly: make([]WeeklyEngagement, 0, len(weekly)),
		Trend:  TrendStable,
	}
	for _, key := range slices.Sorted(maps.Keys(daily)) {
		trends.Daily = append(trends.Daily, *daily[key])
	}
	for _, key := range slices.Sorted(maps.Keys(weekly)) {
		w := *weekly[key]
		w.AvgTouches = roundHalfUp(averageTouches(w))
		trends.Weekly = append(trends.Weekly, w)
	}

	if n := len(trends.Weekly); n >= 2 {
		prev := averageTouches(trends.Weekly[n-2])
		last := averageTouches(trends.Weekly[n-1])
		if prev != 0 {
			trends.GrowthRate = roundHalfUp(100 * (last - prev) / prev)
		}
		trends.Trend = classify(trends.GrowthRate)
	}

	return trends
}

func averageTouches(w WeeklyEngagement) float64 {
	if w.Sessions == 0 {
		return 0
	}
	return float64(w.Touches) / float64(w.Sessions)
}

func classify(growthRate int) string {
	switch {
	case growthRate > trendThreshold:
		return TrendImproving
	case growthRate < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}
