package domain

import (
	"encoding/json"
	"time"
)

// ExportTimeLayout is ISO-8601 in UTC with millisecond precision.
const ExportTimeLayout = "2006-01-02T15:04:05.000Z"

// Export is a full snapshot of the store.
type Export struct {
	ExportDate    string     `json:"exportDate"`
	TotalSessions int        `json:"totalSessions"`
	Sessions      []*Session `json:"sessions"`
}

// NewExport builds a snapshot of sessions, which must already be ordered
// newest first.
func NewExport(sessions []*Session, at time.Time) Export {
	if sessions == nil {
		sessions = []*Session{}
	}
	return Export{
		ExportDate:    at.UTC().Format(ExportTimeLayout),
		TotalSessions: len(sessions),
		Sessions:      sessions,
	}
}

// MarshalIndented renders the snapshot as two-space indented JSON.
func (e Export) MarshalIndented() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
