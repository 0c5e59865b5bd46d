package analytics

// Time-of-day buckets in declaration order; earlier buckets win ties.
const (
	Morning   = "morning"
	Afternoon = "afternoon"
	Evening   = "evening"
)

// Trend classifications.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

const (
	UnknownTheme      = "Unknown"
	NeutralColor      = "#FFFFFF"
	NoSessionsMessage = "No sessions this week!"
	NotEnoughData     = "Not enough data"
	TopObjectsLimit   = 5
	TopRhymesLimit    = 3
)

// Percentage points beyond which a change counts as up or down.
const (
	trendThreshold      = 10
	comparisonThreshold = 10
)

// ObjectCount is one entry of the top-objects list.
type ObjectCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// RhymePlays is one entry of the top-rhymes list.
type RhymePlays struct {
	Name  string `json:"name"`
	Plays int    `json:"plays"`
}

// WeeklySummary describes the trailing seven days.
type WeeklySummary struct {
	Message         string        `json:"message,omitempty"`
	TotalSessions   int           `json:"totalSessions"`
	TotalTouches    int           `json:"totalTouches"`
	AverageDuration int           `json:"averageDuration"`
	FavoriteTheme   string        `json:"favoriteTheme"`
	FavoriteColor   string        `json:"favoriteColor"`
	TopObjects      []ObjectCount `json:"topObjects"`
	TopRhymes       []RhymePlays  `json:"topRhymes"`
	BestTimeOfDay   string        `json:"bestTimeOfDay"`
}

// ThemeRanking aggregates one theme across sessions.
type ThemeRanking struct {
	Theme    string `json:"theme"`
	Touches  int    `json:"touches"`
	Sessions int    `json:"sessions"`
}

// ColorEngagement is the summed touch count for one color.
type ColorEngagement struct {
	Color   string `json:"color"`
	Touches int    `json:"touches"`
}

// TimingPatterns holds touches per local hour and per weekday.
type TimingPatterns struct {
	ByHour      map[int]int    `json:"byHour"`
	ByDayOfWeek map[string]int `json:"byDayOfWeek"`
	BestTime    string         `json:"bestTime"`
}

// DailyEngagement is one calendar day bucket.
type DailyEngagement struct {
	Date     string `json:"date"`
	Touches  int    `json:"touches"`
	Sessions int    `json:"sessions"`
}

// WeeklyEngagement is one Sunday-start calendar week bucket.
type WeeklyEngagement struct {
	WeekStart  string `json:"weekStart"`
	Touches    int    `json:"touches"`
	Sessions   int    `json:"sessions"`
	AvgTouches int    `json:"avgTouches"`
}

// EngagementTrends carries chronological buckets and the latest trend.
type EngagementTrends struct {
	Daily      []DailyEngagement  `json:"daily"`
	Weekly     []WeeklyEngagement `json:"weekly"`
	Trend      string             `json:"trend"`
	GrowthRate int                `json:"growthRate"`
}

// WeekStats describes one seven-day comparison window.
type WeekStats struct {
	Sessions       int    `json:"sessions"`
	TotalTouches   int    `json:"totalTouches"`
	AverageTouches int    `json:"averageTouches"`
	CompletionRate int    `json:"completionRate"`
	FavoriteTheme  string `json:"favoriteTheme"`
}

// Delta is a signed absolute change and its percentage of the previous value.
type Delta struct {
	Change  int `json:"change"`
	Percent int `json:"percent"`
}

// WeekChanges holds a delta per numeric WeekStats field.
type WeekChanges struct {
	Sessions       Delta `json:"sessions"`
	TotalTouches   Delta `json:"totalTouches"`
	AverageTouches Delta `json:"averageTouches"`
	CompletionRate Delta `json:"completionRate"`
}

// WeekComparison compares the last seven days with the seven before.
type WeekComparison struct {
	CurrentWeek  WeekStats   `json:"currentWeek"`
	PreviousWeek WeekStats   `json:"previousWeek"`
	Changes      WeekChanges `json:"changes"`
	Summary      string      `json:"summary"`
}
