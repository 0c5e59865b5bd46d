package domain

import (
	"cmp"
	"slices"
)

// Session is one logged play session with its engagement counters.
// Sessions are immutable once created; stores hand out clones.
type Session struct {
	ID                  string         `json:"id"`
	Timestamp           int64          `json:"timestamp"`
	Theme               string         `json:"theme"`
	Duration            int            `json:"duration"`
	Touches             int            `json:"touches"`
	ColorCounts         map[string]int `json:"colorCounts"`
	ObjectCounts        map[string]int `json:"objectCounts"`
	NurseryRhymesPlayed []string       `json:"nurseryRhymesPlayed"`
	Streaks             int            `json:"streaks"`
	Milestones          []int          `json:"milestones"`
	CompletedFull       bool           `json:"completedFull"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.ColorCounts = cloneCounts(s.ColorCounts)
	c.ObjectCounts = cloneCounts(s.ObjectCounts)
	c.NurseryRhymesPlayed = append([]string{}, s.NurseryRhymesPlayed...)
	c.Milestones = append([]int{}, s.Milestones...)
	return &c
}

func cloneCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SortByTimestampDesc orders sessions newest first.
func SortByTimestampDesc(sessions []*Session) {
	slices.SortStableFunc(sessions, func(a, b *Session) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
}

// Validate applies the create-request rules to a stored or imported session.
func (s *Session) Validate() error {
	return CreateSessionRequest{
		Theme:               s.Theme,
		Duration:            s.Duration,
		Touches:             s.Touches,
		ColorCounts:         s.ColorCounts,
		ObjectCounts:        s.ObjectCounts,
		NurseryRhymesPlayed: s.NurseryRhymesPlayed,
		Streaks:             s.Streaks,
		Milestones:          s.Milestones,
		CompletedFull:       s.CompletedFull,
	}.Validate()
}
