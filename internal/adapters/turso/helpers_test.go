package turso_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/migrate"
)

// testDB opens a fresh file-backed libsql database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file:"+filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newSession(id string, ts int64, theme string, touches int) *domain.Session {
	return &domain.Session{
		ID:                  id,
		Timestamp:           ts,
		Theme:               theme,
		Duration:            1200,
		Touches:             touches,
		ColorCounts:         map[string]int{"#8800FF": 52, "#0088FF": 45},
		ObjectCounts:        map[string]int{"star": 64, "planet": 42},
		NurseryRhymesPlayed: []string{"Twinkle Twinkle", "Baa Baa Black Sheep", "Twinkle Twinkle"},
		Streaks:             15,
		Milestones:          []int{10, 25, 50, 100, 150},
		CompletedFull:       true,
	}
}
