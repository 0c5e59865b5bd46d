package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emiliopalmerini/sensorystats/internal/analytics"
	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/sessions"
)

// Scheme prefixes every resource URI.
const Scheme = "baby-sensory://"

const mimeJSON = "application/json"

var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrUnknownInsight  = errors.New("unknown insight")
)

// SessionNotFoundError reports a lookup for an id that does not exist.
type SessionNotFoundError struct {
	ID string
}

func (e *SessionNotFoundError) Error() string {
	return "Session not found: " + e.ID
}

// Resource describes a readable URI.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// Surface maps named resources, tools and insights onto the session facade
// and the analytics service. Every result is indented JSON text.
type Surface struct {
	sessions *sessions.Service
	insights *analytics.Service
	logger   *slog.Logger
}

func New(sessions *sessions.Service, insights *analytics.Service, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Surface{sessions: sessions, insights: insights, logger: logger}
}

var resources = []Resource{
	{URI: Scheme + "sessions/list", Name: "All Sessions", Description: "Get all recorded sessions"},
	{URI: Scheme + "sessions/recent", Name: "Recent Sessions", Description: "Get sessions from the last 7 days"},
	{URI: Scheme + "insights/weekly-summary", Name: "Weekly Summary", Description: "Get weekly engagement summary and insights"},
	{URI: Scheme + "insights/themes", Name: "Theme Rankings", Description: "Get theme preference rankings by engagement"},
	{URI: Scheme + "insights/colors", Name: "Color Engagement", Description: "Get color preference statistics"},
	{URI: Scheme + "insights/timing", Name: "Timing Patterns", Description: "Get best times for engagement"},
	{URI: Scheme + "insights/trends", Name: "Engagement Trends", Description: "Get daily and weekly engagement with trend direction"},
	{URI: Scheme + "insights/comparison", Name: "Week Comparison", Description: "Compare this week with the previous week"},
	{URI: Scheme + "export/all", Name: "Export All Data", Description: "Export all sessions as JSON"},
}

// Resources lists every fixed resource. Single sessions are addressed as
// sessions/<id> and are not listed.
func (s *Surface) Resources() []Resource {
	out := make([]Resource, len(resources))
	for i, r := range resources {
		r.MimeType = mimeJSON
		out[i] = r
	}
	return out
}

// InsightNames lists the insights accepted by Insight, in display order.
var InsightNames = []string{"weekly-summary", "themes", "colors", "timing", "trends", "comparison"}

// Insight computes one named insight.
func (s *Surface) Insight(ctx context.Context, name string) (any, error) {
	switch name {
	case "weekly-summary":
		return s.insights.WeeklySummary(ctx)
	case "themes":
		return s.insights.ThemeRankings(ctx)
	case "colors":
		return s.insights.ColorEngagement(ctx)
	case "timing":
		return s.insights.TimingPatterns(ctx)
	case "trends":
		return s.insights.EngagementTrends(ctx)
	case "comparison":
		return s.insights.CompareWeeks(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownInsight, name)
	}
}

// ReadResource resolves uri and returns its JSON text.
func (s *Surface) ReadResource(ctx context.Context, uri string) (string, error) {
	s.logger.Debug("reading resource", "uri", uri)

	path, ok := strings.CutPrefix(uri, Scheme)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, uri)
	}

	switch {
	case path == "sessions/list":
		list, err := s.sessions.List(ctx, 0)
		if err != nil {
			return "", err
		}
		return render(nonNil(list))

	case path == "sessions/recent":
		list, err := s.sessions.Recent(ctx, sessions.DefaultRecentDays)
		if err != nil {
			return "", err
		}
		return render(nonNil(list))

	case strings.HasPrefix(path, "sessions/"):
		return s.sessionText(ctx, strings.TrimPrefix(path, "sessions/"))

	case strings.HasPrefix(path, "insights/"):
		result, err := s.Insight(ctx, strings.TrimPrefix(path, "insights/"))
		if errors.Is(err, ErrUnknownInsight) {
			return "", fmt.Errorf("%w: %s", ErrUnknownResource, uri)
		}
		if err != nil {
			return "", err
		}
		return render(result)

	case path == "export/all":
		return s.sessions.ExportAll(ctx)
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownResource, uri)
}

func (s *Surface) sessionText(ctx context.Context, id string) (string, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", &SessionNotFoundError{ID: id}
	}
	return render(session)
}

func render(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}

func nonNil(list []*domain.Session) []*domain.Session {
	if list == nil {
		return []*domain.Session{}
	}
	return list
}
