package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

// Tool describes a callable operation and its JSON input schema.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

var tools = []Tool{
	{
		Name:        "create_session",
		Description: "Create a new session record",
		InputSchema: object(map[string]any{
			"theme":    prop("string", "Theme name (Ocean, Space, etc.)"),
			"duration": prop("number", "Session duration in seconds"),
			"touches":  prop("number", "Total number of touches"),
			"colorCounts": map[string]any{
				"type":                 "object",
				"description":          "Color engagement map (hex color -> count)",
				"additionalProperties": map[string]any{"type": "number"},
			},
			"objectCounts": map[string]any{
				"type":                 "object",
				"description":          "Object engagement map (emoji -> count)",
				"additionalProperties": map[string]any{"type": "number"},
			},
			"nurseryRhymesPlayed": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "List of nursery rhymes played",
			},
			"streaks": prop("number", "Longest streak achieved"),
			"milestones": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "number"},
				"description": "Milestones reached",
			},
			"completedFull": prop("boolean", "Did the session run its full length?"),
		}, domain.RequiredCreateFields...),
	},
	{
		Name:        "get_session",
		Description: "Get a specific session by ID",
		InputSchema: object(map[string]any{"id": prop("string", "Session ID")}, "id"),
	},
	{
		Name:        "list_sessions",
		Description: "List sessions with optional limit",
		InputSchema: object(map[string]any{"limit": prop("number", "Maximum number of sessions to return")}),
	},
	{
		Name:        "get_recent_sessions",
		Description: "Get sessions from the last N days",
		InputSchema: object(map[string]any{"days": prop("number", "Number of days to look back (default 7)")}),
	},
}

// Tools lists every callable tool.
func (s *Surface) Tools() []Tool {
	return tools
}

// CreateResult is the payload returned by create_session.
type CreateResult struct {
	Success bool            `json:"success"`
	Session *domain.Session `json:"session"`
}

// CallTool runs the named tool with raw JSON arguments.
func (s *Surface) CallTool(ctx context.Context, name string, args json.RawMessage) (string, error) {
	s.logger.Debug("calling tool", "tool", name)

	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}

	switch name {
	case "create_session":
		req, err := domain.ParseCreateSessionRequest(args)
		if err != nil {
			return "", err
		}
		session, err := s.sessions.Create(ctx, req)
		if err != nil {
			return "", err
		}
		return render(CreateResult{Success: true, Session: session})

	case "get_session":
		var in struct {
			ID string `json:"id"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		if in.ID == "" {
			return "", &domain.ValidationError{Field: "id", Reason: "is required"}
		}
		return s.sessionText(ctx, in.ID)

	case "list_sessions":
		var in struct {
			Limit *float64 `json:"limit"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		limit := 0
		if in.Limit != nil {
			limit = int(*in.Limit)
		}
		list, err := s.sessions.List(ctx, limit)
		if err != nil {
			return "", err
		}
		return render(nonNil(list))

	case "get_recent_sessions":
		var in struct {
			Days *float64 `json:"days"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		days := 0
		if in.Days != nil {
			days = int(*in.Days)
		}
		list, err := s.sessions.Recent(ctx, days)
		if err != nil {
			return "", err
		}
		return render(nonNil(list))
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

func decodeArgs(args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return &domain.ValidationError{Reason: fmt.Sprintf("invalid arguments: %v", err)}
	}
	return nil
}
