package analytics

import (
	"time"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

func at(month time.Month, day, hour, minute int) int64 {
	return time.Date(2024, month, day, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func session(ts int64, theme string, touches int) *domain.Session {
	return &domain.Session{
		ID:                  theme + "-" + time.UnixMilli(ts).UTC().Format(time.RFC3339),
		Timestamp:           ts,
		Theme:               theme,
		Touches:             touches,
		ColorCounts:         map[string]int{},
		ObjectCounts:        map[string]int{},
		NurseryRhymesPlayed: []string{},
		Milestones:          []int{},
	}
}
