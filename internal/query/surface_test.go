package query

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/sensorystats/internal/adapters/storage"
	"github.com/emiliopalmerini/sensorystats/internal/analytics"
	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/sessions"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	clock := func() time.Time { return testNow }

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "sessions.json"), logger)
	svc := sessions.NewService(store, sessions.WithClock(clock), sessions.WithLogger(logger))
	insights := analytics.NewService(store, logger, analytics.WithClock(clock), analytics.WithLocation(time.UTC))
	return New(svc, insights, logger)
}

const createArgs = `{
	"theme": "Space",
	"duration": 1200,
	"touches": 189,
	"colorCounts": {"#8800FF": 52, "#0088FF": 45},
	"objectCounts": {"star": 64},
	"nurseryRhymesPlayed": ["Twinkle Twinkle"],
	"streaks": 15,
	"milestones": [10, 25, 50, 100, 150],
	"completedFull": true
}`

func createSession(t *testing.T, s *Surface) *domain.Session {
	t.Helper()
	out, err := s.CallTool(context.Background(), "create_session", json.RawMessage(createArgs))
	if err != nil {
		t.Fatalf("create_session failed: %v", err)
	}
	var result CreateResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("create_session returned invalid JSON: %v", err)
	}
	if !result.Success || result.Session == nil {
		t.Fatalf("unexpected create result: %s", out)
	}
	return result.Session
}

func TestSurface_CreateThenRead(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()

	created := createSession(t, s)
	if created.Timestamp != testNow.UnixMilli() || created.Theme != "Space" {
		t.Errorf("unexpected created session: %+v", created)
	}

	out, err := s.ReadResource(ctx, Scheme+"sessions/"+created.ID)
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	var got domain.Session
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.ID != created.ID || got.Touches != 189 {
		t.Errorf("unexpected session: %+v", got)
	}

	toolOut, err := s.CallTool(ctx, "get_session", json.RawMessage(`{"id":"`+created.ID+`"}`))
	if err != nil {
		t.Fatalf("get_session failed: %v", err)
	}
	if toolOut != out {
		t.Errorf("get_session and sessions/<id> should render identically")
	}
}

func TestSurface_ResultsAreIndented(t *testing.T) {
	s := newTestSurface(t)
	createSession(t, s)

	out, err := s.ReadResource(context.Background(), Scheme+"sessions/list")
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if !strings.HasPrefix(out, "[\n  {\n    \"id\": ") {
		t.Errorf("expected two-space indented JSON, got:\n%s", out)
	}
}

func TestSurface_EmptyListsRenderAsArrays(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()

	for _, uri := range []string{Scheme + "sessions/list", Scheme + "sessions/recent", Scheme + "insights/themes", Scheme + "insights/colors"} {
		out, err := s.ReadResource(ctx, uri)
		if err != nil {
			t.Fatalf("%s: %v", uri, err)
		}
		if out != "[]" {
			t.Errorf("%s: expected [], got %s", uri, out)
		}
	}
}

func TestSurface_EveryListedResourceIsReadable(t *testing.T) {
	s := newTestSurface(t)
	createSession(t, s)

	for _, r := range s.Resources() {
		if r.MimeType != "application/json" {
			t.Errorf("%s: unexpected mime type %q", r.URI, r.MimeType)
		}
		out, err := s.ReadResource(context.Background(), r.URI)
		if err != nil {
			t.Errorf("%s: %v", r.URI, err)
			continue
		}
		if !json.Valid([]byte(out)) {
			t.Errorf("%s: result is not valid JSON", r.URI)
		}
	}
}

func TestSurface_WeeklySummaryResource(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()

	out, err := s.ReadResource(ctx, Scheme+"insights/weekly-summary")
	if err != nil {
		t.Fatal(err)
	}
	var empty analytics.WeeklySummary
	if err := json.Unmarshal([]byte(out), &empty); err != nil {
		t.Fatal(err)
	}
	if empty.Message != analytics.NoSessionsMessage {
		t.Errorf("expected empty-week message, got %+v", empty)
	}

	createSession(t, s)
	out, err = s.ReadResource(ctx, Scheme+"insights/weekly-summary")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, `"message"`) {
		t.Errorf("message must be omitted when sessions exist:\n%s", out)
	}
}

func TestSurface_Errors(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		call  func() error
		check func(error) bool
	}{
		{
			name:  "unknown resource",
			call:  func() error { _, err := s.ReadResource(ctx, Scheme+"nope"); return err },
			check: func(err error) bool { return errors.Is(err, ErrUnknownResource) },
		},
		{
			name:  "foreign scheme",
			call:  func() error { _, err := s.ReadResource(ctx, "file:///etc/passwd"); return err },
			check: func(err error) bool { return errors.Is(err, ErrUnknownResource) },
		},
		{
			name:  "unknown insight",
			call:  func() error { _, err := s.ReadResource(ctx, Scheme+"insights/moods"); return err },
			check: func(err error) bool { return errors.Is(err, ErrUnknownResource) },
		},
		{
			name: "missing session resource",
			call: func() error { _, err := s.ReadResource(ctx, Scheme+"sessions/missing"); return err },
			check: func(err error) bool {
				var nf *SessionNotFoundError
				return errors.As(err, &nf) && nf.Error() == "Session not found: missing"
			},
		},
		{
			name: "missing session tool",
			call: func() error { _, err := s.CallTool(ctx, "get_session", json.RawMessage(`{"id":"missing"}`)); return err },
			check: func(err error) bool {
				var nf *SessionNotFoundError
				return errors.As(err, &nf)
			},
		},
		{
			name:  "unknown tool",
			call:  func() error { _, err := s.CallTool(ctx, "delete_everything", nil); return err },
			check: func(err error) bool { return errors.Is(err, ErrUnknownTool) },
		},
		{
			name: "create missing field",
			call: func() error {
				_, err := s.CallTool(ctx, "create_session", json.RawMessage(`{"theme":"Ocean"}`))
				return err
			},
			check: func(err error) bool {
				var verr *domain.ValidationError
				return errors.As(err, &verr) && verr.Field == "duration"
			},
		},
		{
			name: "get session without id",
			call: func() error { _, err := s.CallTool(ctx, "get_session", nil); return err },
			check: func(err error) bool {
				var verr *domain.ValidationError
				return errors.As(err, &verr) && verr.Field == "id"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSurface_ListAndRecentTools(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()
	for range 3 {
		createSession(t, s)
	}

	tests := []struct {
		name string
		tool string
		args string
		want int
	}{
		{"list all", "list_sessions", `{}`, 3},
		{"list limited", "list_sessions", `{"limit": 2}`, 2},
		{"recent default", "get_recent_sessions", `{}`, 3},
		{"recent explicit", "get_recent_sessions", `{"days": 1}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.CallTool(ctx, tt.tool, json.RawMessage(tt.args))
			if err != nil {
				t.Fatalf("%s failed: %v", tt.tool, err)
			}
			var list []domain.Session
			if err := json.Unmarshal([]byte(out), &list); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("expected %d sessions, got %d", tt.want, len(list))
			}
		})
	}
}

func TestSurface_ToolsDeclareRequiredFields(t *testing.T) {
	s := newTestSurface(t)

	byName := map[string]Tool{}
	for _, tool := range s.Tools() {
		byName[tool.Name] = tool
	}

	for _, name := range []string{"create_session", "get_session", "list_sessions", "get_recent_sessions"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("missing tool %q", name)
		}
	}

	required, _ := byName["create_session"].InputSchema["required"].([]string)
	if len(required) != len(domain.RequiredCreateFields) {
		t.Errorf("create_session requires %v, want %v", required, domain.RequiredCreateFields)
	}
}
