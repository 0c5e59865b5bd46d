package turso

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

// sessionRow mirrors one row of the sessions table. Collections are stored
// as JSON text and the completion flag as 0/1.
type sessionRow struct {
	ID                  string
	Timestamp           int64
	Theme               string
	Duration            int64
	Touches             int64
	ColorCounts         string
	ObjectCounts        string
	NurseryRhymesPlayed string
	Streaks             int64
	Milestones          string
	CompletedFull       int64
}

// sessionColumns is the column list in sessionRow field order.
var sessionColumns = []string{
	"id",
	"timestamp",
	"theme",
	"duration",
	"touches",
	"color_counts",
	"object_counts",
	"nursery_rhymes_played",
	"streaks",
	"milestones",
	"completed_full",
}

func (r *sessionRow) scanTargets() []any {
	return []any{
		&r.ID,
		&r.Timestamp,
		&r.Theme,
		&r.Duration,
		&r.Touches,
		&r.ColorCounts,
		&r.ObjectCounts,
		&r.NurseryRhymesPlayed,
		&r.Streaks,
		&r.Milestones,
		&r.CompletedFull,
	}
}

func (r sessionRow) values() []any {
	return []any{
		r.ID,
		r.Timestamp,
		r.Theme,
		r.Duration,
		r.Touches,
		r.ColorCounts,
		r.ObjectCounts,
		r.NurseryRhymesPlayed,
		r.Streaks,
		r.Milestones,
		r.CompletedFull,
	}
}

func toRow(s *domain.Session) (sessionRow, error) {
	colors, err := marshalJSON(s.ColorCounts, "{}")
	if err != nil {
		return sessionRow{}, fmt.Errorf("color_counts: %w", err)
	}
	objects, err := marshalJSON(s.ObjectCounts, "{}")
	if err != nil {
		return sessionRow{}, fmt.Errorf("object_counts: %w", err)
	}
	rhymes, err := marshalJSON(s.NurseryRhymesPlayed, "[]")
	if err != nil {
		return sessionRow{}, fmt.Errorf("nursery_rhymes_played: %w", err)
	}
	milestones, err := marshalJSON(s.Milestones, "[]")
	if err != nil {
		return sessionRow{}, fmt.Errorf("milestones: %w", err)
	}

	var completed int64
	if s.CompletedFull {
		completed = 1
	}

	return sessionRow{
		ID:                  s.ID,
		Timestamp:           s.Timestamp,
		Theme:               s.Theme,
		Duration:            int64(s.Duration),
		Touches:             int64(s.Touches),
		ColorCounts:         colors,
		ObjectCounts:        objects,
		NurseryRhymesPlayed: rhymes,
		Streaks:             int64(s.Streaks),
		Milestones:          milestones,
		CompletedFull:       completed,
	}, nil
}

func fromRow(r sessionRow) (*domain.Session, error) {
	s := &domain.Session{
		ID:                  r.ID,
		Timestamp:           r.Timestamp,
		Theme:               r.Theme,
		Duration:            int(r.Duration),
		Touches:             int(r.Touches),
		ColorCounts:         map[string]int{},
		ObjectCounts:        map[string]int{},
		NurseryRhymesPlayed: []string{},
		Streaks:             int(r.Streaks),
		Milestones:          []int{},
		CompletedFull:       r.CompletedFull != 0,
	}

	if err := json.Unmarshal([]byte(r.ColorCounts), &s.ColorCounts); err != nil {
		return nil, fmt.Errorf("color_counts: %w", err)
	}
	if err := json.Unmarshal([]byte(r.ObjectCounts), &s.ObjectCounts); err != nil {
		return nil, fmt.Errorf("object_counts: %w", err)
	}
	if err := json.Unmarshal([]byte(r.NurseryRhymesPlayed), &s.NurseryRhymesPlayed); err != nil {
		return nil, fmt.Errorf("nursery_rhymes_played: %w", err)
	}
	if err := json.Unmarshal([]byte(r.Milestones), &s.Milestones); err != nil {
		return nil, fmt.Errorf("milestones: %w", err)
	}

	return s, nil
}

func marshalJSON[T any](v T, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return empty, nil
	}
	return string(data), nil
}

func scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	defer func() { _ = rows.Close() }()

	sessions := []*domain.Session{}
	for rows.Next() {
		var row sessionRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, err
		}
		s, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
