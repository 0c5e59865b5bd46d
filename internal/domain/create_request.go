package domain

import (
	"encoding/json"
	"fmt"
)

// CreateSessionRequest carries every Session field except ID and Timestamp,
// which are assigned when the session is created.
type CreateSessionRequest struct {
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

// RequiredCreateFields lists the JSON keys a create request must carry.
var RequiredCreateFields = []string{
	"theme",
	"duration",
	"touches",
	"colorCounts",
	"objectCounts",
	"nurseryRhymesPlayed",
	"streaks",
	"milestones",
	"completedFull",
}

// ParseCreateSessionRequest decodes a JSON create request. Missing fields are
// reported as a ValidationError rather than defaulted.
func ParseCreateSessionRequest(data []byte) (CreateSessionRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return CreateSessionRequest{}, &ValidationError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	for _, field := range RequiredCreateFields {
		v, ok := raw[field]
		if !ok || string(v) == "null" {
			return CreateSessionRequest{}, &ValidationError{Field: field, Reason: "is required"}
		}
	}

	var req CreateSessionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return CreateSessionRequest{}, &ValidationError{Reason: fmt.Sprintf("invalid field type: %v", err)}
	}

	return req, req.Validate()
}

// Validate checks required-field presence and non-negative counts.
func (r CreateSessionRequest) Validate() error {
	if r.Theme == "" {
		return &ValidationError{Field: "theme", Reason: "must not be empty"}
	}
	if r.ColorCounts == nil {
		return &ValidationError{Field: "colorCounts", Reason: "is required"}
	}
	if r.ObjectCounts == nil {
		return &ValidationError{Field: "objectCounts", Reason: "is required"}
	}
	if r.NurseryRhymesPlayed == nil {
		return &ValidationError{Field: "nurseryRhymesPlayed", Reason: "is required"}
	}
	if r.Milestones == nil {
		return &ValidationError{Field: "milestones", Reason: "is required"}
	}

	if r.Duration < 0 {
		return &ValidationError{Field: "duration", Reason: "must be non-negative"}
	}
	if r.Touches < 0 {
		return &ValidationError{Field: "touches", Reason: "must be non-negative"}
	}
	if r.Streaks < 0 {
		return &ValidationError{Field: "streaks", Reason: "must be non-negative"}
	}
	for color, n := range r.ColorCounts {
		if n < 0 {
			return &ValidationError{Field: "colorCounts", Reason: fmt.Sprintf("count for %q must be non-negative", color)}
		}
	}
	for object, n := range r.ObjectCounts {
		if n < 0 {
			return &ValidationError{Field: "objectCounts", Reason: fmt.Sprintf("count for %q must be non-negative", object)}
		}
	}
	for _, m := range r.Milestones {
		if m < 0 {
			return &ValidationError{Field: "milestones", Reason: "must be non-negative"}
		}
	}

	return nil
}

// NewSession builds a Session from the request with the given identity.
func (r CreateSessionRequest) NewSession(id string, timestamp int64) *Session {
	s := &Session{
		ID:                  id,
		Timestamp:           timestamp,
		Theme:               r.Theme,
		Duration:            r.Duration,
		Touches:             r.Touches,
		ColorCounts:         r.ColorCounts,
		ObjectCounts:        r.ObjectCounts,
		NurseryRhymesPlayed: r.NurseryRhymesPlayed,
		Streaks:             r.Streaks,
		Milestones:          r.Milestones,
		CompletedFull:       r.CompletedFull,
	}
	return s.Clone()
}
