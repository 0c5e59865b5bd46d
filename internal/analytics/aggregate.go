package analytics

import (
	"cmp"
	"maps"
	"math"
	"slices"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

// keyedTotal is one category produced by aggregateByKey.
type keyedTotal struct {
	Key   string
	Total int
	Count int
}

// aggregateByKey sums contributions per key and returns the keys ordered by
// total descending. Equal totals keep first-encountered order.
func aggregateByKey(sessions []*domain.Session, contribute func(s *domain.Session, add func(key string, n int))) []keyedTotal {
	index := map[string]int{}
	var totals []keyedTotal

	add := func(key string, n int) {
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, keyedTotal{Key: key})
		}
		totals[i].Total += n
		totals[i].Count++
	}

	for _, s := range sessions {
		contribute(s, add)
	}

	slices.SortStableFunc(totals, func(a, b keyedTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return totals
}

// addCounts feeds a count map in key order so that ties resolve the same way
// on every run.
func addCounts(counts map[string]int, add func(key string, n int)) {
	for _, key := range slices.Sorted(maps.Keys(counts)) {
		add(key, counts[key])
	}
}

// MostFrequent returns the label that occurs most often. Ties go to the label
// seen first; an empty input yields UnknownTheme.
func MostFrequent(items []string) string {
	if len(items) == 0 {
		return UnknownTheme
	}

	counts := map[string]int{}
	best, bestCount := "", 0
	for _, item := range items {
		counts[item]++
	}
	for _, item := range items {
		if counts[item] > bestCount {
			best, bestCount = item, counts[item]
		}
	}
	return best
}

func themesOf(sessions []*domain.Session) []string {
	themes := make([]string, len(sessions))
	for i, s := range sessions {
		themes[i] = s.Theme
	}
	return themes
}

func totalTouches(sessions []*domain.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Touches
	}
	return total
}

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
