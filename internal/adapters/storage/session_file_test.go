package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emiliopalmerini/sensorystats/internal/adapters/storage"
	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

func testStore(t *testing.T) (*storage.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.json")
	return storage.NewFileStore(path, nil), path
}

func newSession(id string, ts int64, theme string, touches int) *domain.Session {
	return &domain.Session{
		ID:                  id,
		Timestamp:           ts,
		Theme:               theme,
		Duration:            600,
		Touches:             touches,
		ColorCounts:         map[string]int{"#0088FF": touches},
		ObjectCounts:        map[string]int{"star": 1},
		NurseryRhymesPlayed: []string{"Twinkle Twinkle"},
		Streaks:             3,
		Milestones:          []int{10},
		CompletedFull:       true,
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	sessions, err := store.GetAllSessions(ctx)
	if err != nil {
		t.Fatalf("GetAllSessions failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected empty store, got %d sessions", len(sessions))
	}
}

func TestFileStore_CorruptFileIsIOError(t *testing.T) {
	store, path := testStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := store.GetAllSessions(context.Background())
	var ioErr *domain.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if ioErr.Path != path {
		t.Errorf("expected path %q, got %q", path, ioErr.Path)
	}
}

func TestFileStore_CreateAndGet(t *testing.T) {
	store, path := testStore(t)
	ctx := context.Background()

	in := newSession("s-1", 1000, "Ocean", 42)
	created, err := store.CreateSession(ctx, in)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if created.ID != "s-1" {
		t.Errorf("expected id s-1, got %q", created.ID)
	}

	got, err := store.GetSession(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil || got.Touches != 42 || got.ColorCounts["#0088FF"] != 42 {
		t.Errorf("unexpected session: %+v", got)
	}

	missing, err := store.GetSession(ctx, "nope")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing session, got %+v", missing)
	}

	// The file holds a plain camelCase JSON array.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("store file is not a JSON array: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 record in file, got %d", len(raw))
	}
	for _, key := range []string{"id", "timestamp", "colorCounts", "nurseryRhymesPlayed", "completedFull"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("file record missing key %q", key)
		}
	}
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	if _, err := store.CreateSession(ctx, newSession("s-1", 1000, "Ocean", 5)); err != nil {
		t.Fatal(err)
	}
	got, _ := store.GetSession(ctx, "s-1")
	got.ColorCounts["#0088FF"] = 999
	got.Touches = 999

	again, _ := store.GetSession(ctx, "s-1")
	if again.Touches != 5 || again.ColorCounts["#0088FF"] != 5 {
		t.Errorf("stored session was mutated through a returned value: %+v", again)
	}
}

func TestFileStore_Ordering(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, s := range []*domain.Session{
		newSession("a", 2000, "Ocean", 1),
		newSession("b", 5000, "Space", 2),
		newSession("c", 1000, "Garden", 3),
		newSession("d", 4000, "Rainbow", 4),
	} {
		if _, err := store.CreateSession(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.GetAllSessions(ctx)
	if err != nil {
		t.Fatalf("GetAllSessions failed: %v", err)
	}
	assertIDs(t, "all", all, "b", "d", "a", "c")

	recent, err := store.GetRecentSessions(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecentSessions failed: %v", err)
	}
	assertIDs(t, "recent", recent, "b", "d")

	more, err := store.GetRecentSessions(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecentSessions failed: %v", err)
	}
	if len(more) != 4 {
		t.Errorf("expected min(10, 4) = 4 sessions, got %d", len(more))
	}

	since, err := store.GetSessionsSince(ctx, 2000)
	if err != nil {
		t.Fatalf("GetSessionsSince failed: %v", err)
	}
	assertIDs(t, "since", since, "b", "d", "a")
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	store, path := testStore(t)
	ctx := context.Background()

	if _, err := store.CreateSession(ctx, newSession("s-1", 1000, "Ocean", 7)); err != nil {
		t.Fatal(err)
	}

	reopened := storage.NewFileStore(path, nil)
	got, err := reopened.GetSession(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session to survive reopen")
	}
}

func TestFileStore_IndependentInstances(t *testing.T) {
	a, _ := testStore(t)
	b, _ := testStore(t)
	ctx := context.Background()

	if _, err := a.CreateSession(ctx, newSession("s-1", 1000, "Ocean", 7)); err != nil {
		t.Fatal(err)
	}
	all, err := b.GetAllSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("instances share state: %d sessions visible", len(all))
	}
}

func TestFileStore_DeleteAndClear(t *testing.T) {
	store, path := testStore(t)
	ctx := context.Background()

	for _, s := range []*domain.Session{newSession("a", 1, "Ocean", 1), newSession("b", 2, "Space", 2)} {
		if _, err := store.CreateSession(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.DeleteSession(ctx, "a")
	if err != nil || !removed {
		t.Fatalf("DeleteSession(a) = %v, %v; want true, nil", removed, err)
	}
	removed, err = store.DeleteSession(ctx, "a")
	if err != nil || removed {
		t.Fatalf("second DeleteSession(a) = %v, %v; want false, nil", removed, err)
	}

	if err := store.ClearAllSessions(ctx); err != nil {
		t.Fatalf("ClearAllSessions failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty array on disk, got %s", data)
	}
}

func TestFileStore_FailedClearKeepsSessions(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "data")
	store := storage.NewFileStore(filepath.Join(dir, "sessions.json"), nil)
	ctx := context.Background()

	if _, err := store.CreateSession(ctx, newSession("a", 1, "Ocean", 10)); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Replace the data directory with a plain file so the rewrite cannot happen.
	moved := filepath.Join(root, "moved")
	if err := os.Rename(dir, moved); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := store.ClearAllSessions(ctx)
	var ioErr *domain.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if ioErr.Op != "mkdir" || ioErr.Path != dir {
		t.Errorf("IOError = %q %q, want mkdir %q", ioErr.Op, ioErr.Path, dir)
	}
	if n := strings.Count(err.Error(), dir); n != 1 {
		t.Errorf("path appears %d times in %q, want once", n, err.Error())
	}

	sessions, err := store.GetAllSessions(ctx)
	if err != nil {
		t.Fatalf("GetAllSessions failed: %v", err)
	}
	assertIDs(t, "after failed clear", sessions, "a")

	data, err := os.ReadFile(filepath.Join(moved, "sessions.json"))
	if err != nil {
		t.Fatal(err)
	}
	var onDisk []*domain.Session
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatal(err)
	}
	if len(onDisk) != 1 {
		t.Errorf("expected 1 session on disk, got %d", len(onDisk))
	}
}

func TestFileStore_DuplicateID(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	if _, err := store.CreateSession(ctx, newSession("dup", 1, "Ocean", 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateSession(ctx, newSession("dup", 2, "Ocean", 1)); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func assertIDs(t *testing.T, label string, sessions []*domain.Session, want ...string) {
	t.Helper()
	if len(sessions) != len(want) {
		t.Fatalf("%s: expected %d sessions, got %d", label, len(want), len(sessions))
	}
	for i, id := range want {
		if sessions[i].ID != id {
			t.Errorf("%s[%d]: expected %q, got %q", label, i, id, sessions[i].ID)
		}
	}
}
