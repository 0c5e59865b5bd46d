package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/emiliopalmerini/sensorystats/internal/adapters/otel"
	"github.com/emiliopalmerini/sensorystats/internal/adapters/storage"
	"github.com/emiliopalmerini/sensorystats/internal/adapters/turso"
	"github.com/emiliopalmerini/sensorystats/internal/infrastructure/config"
)

func TestAppContextClose_NilDB(t *testing.T) {
	a := &AppContext{}
	if err := a.Close(); err != nil {
		t.Errorf("Close() on empty context should not error, got: %v", err)
	}
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	testEnv(t)
	resetFlags()
	t.Cleanup(resetFlags)

	flagFile = filepath.Join(t.TempDir(), "other.json")
	flagLogLevel = "debug"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.File != flagFile {
		t.Errorf("File = %q, want %q", cfg.File, flagFile)
	}
	if level, _ := cfg.Level(); level != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", level)
	}

	flagBackend = "postgres"
	if _, err := loadConfig(); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}

func TestNewAppContext_FileBackend(t *testing.T) {
	file := testEnv(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	app, err := newAppContext(context.Background(), cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newAppContext failed: %v", err)
	}
	defer app.Close()

	store, ok := app.Store.(*storage.FileStore)
	if !ok {
		t.Fatalf("Store = %T, want *storage.FileStore", app.Store)
	}
	if store.Path() != file {
		t.Errorf("Path = %q, want %q", store.Path(), file)
	}
	if app.DB != nil {
		t.Error("file backend should not open a database")
	}
	if _, ok := app.Exporter.(*otel.NoOpExporter); !ok {
		t.Errorf("Exporter = %T, want no-op when OTEL is disabled", app.Exporter)
	}
	if app.Sessions == nil || app.Insights == nil || app.Surface == nil {
		t.Error("services not wired")
	}
}

func TestNewAppContext_TursoBackend(t *testing.T) {
	testEnv(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Backend = config.BackendTurso
	cfg.TursoDatabaseURL = "file:" + filepath.Join(t.TempDir(), "app.db")

	app, err := newAppContext(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newAppContext failed: %v", err)
	}
	defer app.Close()

	if _, ok := app.Store.(*turso.SessionStore); !ok {
		t.Errorf("Store = %T, want *turso.SessionStore", app.Store)
	}
	if app.DB == nil {
		t.Error("turso backend should expose its database")
	}
}
