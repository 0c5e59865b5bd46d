package analytics

import (
	"fmt"
	"time"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

const (
	dayMillis  = int64(24 * time.Hour / time.Millisecond)
	weekMillis = 7 * dayMillis
)

func localTime(ts int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ts).In(loc)
}

func since(sessions []*domain.Session, from int64) []*domain.Session {
	var out []*domain.Session
	for _, s := range sessions {
		if s.Timestamp >= from {
			out = append(out, s)
		}
	}
	return out
}

// ComputeWeeklySummary summarizes sessions recorded in the seven days before now.
// Hours are read in now's location.
func ComputeWeeklySummary(sessions []*domain.Session, now time.Time) WeeklySummary {
	window := since(sessions, now.UnixMilli()-weekMillis)

	if len(window) == 0 {
		return WeeklySummary{
			Message:       NoSessionsMessage,
			FavoriteTheme: UnknownTheme,
			FavoriteColor: NeutralColor,
			TopObjects:    []ObjectCount{},
			TopRhymes:     []RhymePlays{},
			BestTimeOfDay: Morning,
		}
	}

	duration := 0
	for _, s := range window {
		duration += s.Duration
	}

	favoriteColor := NeutralColor
	if colors := ComputeColorEngagement(window); len(colors) > 0 {
		favoriteColor = colors[0].Color
	}

	return WeeklySummary{
		TotalSessions:   len(window),
		TotalTouches:    totalTouches(window),
		AverageDuration: roundHalfUp(float64(duration) / float64(len(window))),
		FavoriteTheme:   MostFrequent(themesOf(window)),
		FavoriteColor:   favoriteColor,
		TopObjects:      topObjects(window, TopObjectsLimit),
		TopRhymes:       topRhymes(window, TopRhymesLimit),
		BestTimeOfDay:   BestTimeOfDay(window, now.Location()),
	}
}

func topObjects(sessions []*domain.Session, limit int) []ObjectCount {
	totals := aggregateByKey(sessions, func(s *domain.Session, add func(string, int)) {
		addCounts(s.ObjectCounts, add)
	})

	out := []ObjectCount{}
	for _, t := range totals[:min(limit, len(totals))] {
		out = append(out, ObjectCount{Emoji: t.Key, Count: t.Total})
	}
	return out
}

func topRhymes(sessions []*domain.Session, limit int) []RhymePlays {
	totals := aggregateByKey(sessions, func(s *domain.Session, add func(string, int)) {
		for _, rhyme := range s.NurseryRhymesPlayed {
			add(rhyme, 1)
		}
	})

	out := []RhymePlays{}
	for _, t := range totals[:min(limit, len(totals))] {
		out = append(out, RhymePlays{Name: t.Key, Plays: t.Total})
	}
	return out
}

// TimeOfDay names the bucket for a local hour: morning [6,12),
// afternoon [12,18), evening otherwise.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

// BestTimeOfDay returns the bucket holding the most touches. Ties resolve to
// the earlier bucket; no sessions yields Morning.
func BestTimeOfDay(sessions []*domain.Session, loc *time.Location) string {
	buckets := map[string]int{}
	for _, s := range sessions {
		buckets[TimeOfDay(localTime(s.Timestamp, loc).Hour())] += s.Touches
	}

	best := Morning
	for _, bucket := range []string{Afternoon, Evening} {
		if buckets[bucket] > buckets[best] {
			best = bucket
		}
	}
	return best
}

// ComputeThemeRankings totals touches and sessions per theme, most touches first.
func ComputeThemeRankings(sessions []*domain.Session) []ThemeRanking {
	totals := aggregateByKey(sessions, func(s *domain.Session, add func(string, int)) {
		add(s.Theme, s.Touches)
	})

	out := make([]ThemeRanking, 0, len(totals))
	for _, t := range totals {
		out = append(out, ThemeRanking{Theme: t.Key, Touches: t.Total, Sessions: t.Count})
	}
	return out
}

// ComputeColorEngagement totals touches per color across every session's color map.
func ComputeColorEngagement(sessions []*domain.Session) []ColorEngagement {
	totals := aggregateByKey(sessions, func(s *domain.Session, add func(string, int)) {
		addCounts(s.ColorCounts, add)
	})

	out := make([]ColorEngagement, 0, len(totals))
	for _, t := range totals {
		out = append(out, ColorEngagement{Color: t.Key, Touches: t.Total})
	}
	return out
}

// ComputeTimingPatterns totals touches per local hour and weekday. Only observed
// hours and days appear; the best hour is the lowest one with the top total.
func ComputeTimingPatterns(sessions []*domain.Session, loc *time.Location) TimingPatterns {
	patterns := TimingPatterns{
		ByHour:      map[int]int{},
		ByDayOfWeek: map[string]int{},
		BestTime:    NotEnoughData,
	}

	for _, s := range sessions {
		t := localTime(s.Timestamp, loc)
		patterns.ByHour[t.Hour()] += s.Touches
		patterns.ByDayOfWeek[t.Weekday().String()] += s.Touches
	}

	bestHour := -1
	for hour := range 24 {
		touches, ok := patterns.ByHour[hour]
		if !ok {
			continue
		}
		if bestHour < 0 || touches > patterns.ByHour[bestHour] {
			bestHour = hour
		}
	}
	if bestHour >= 0 {
		patterns.BestTime = fmt.Sprintf("%d:00 (%d touches)", bestHour, patterns.ByHour[bestHour])
	}

	return patterns
}
