package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sensorystats/internal/adapters/otel"
	"github.com/emiliopalmerini/sensorystats/internal/adapters/storage"
	"github.com/emiliopalmerini/sensorystats/internal/adapters/turso"
	"github.com/emiliopalmerini/sensorystats/internal/analytics"
	"github.com/emiliopalmerini/sensorystats/internal/infrastructure/config"
	"github.com/emiliopalmerini/sensorystats/internal/ports"
	"github.com/emiliopalmerini/sensorystats/internal/query"
	"github.com/emiliopalmerini/sensorystats/internal/sessions"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config *config.Config
	Logger *slog.Logger

	// DB is set only for the turso backend.
	DB       *sql.DB
	Store    ports.SessionStore
	Exporter ports.MetricsExporter

	Sessions *sessions.Service
	Insights *analytics.Service
	Surface  *query.Surface
}

// loadConfig reads the environment and applies the global flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagFile != "" {
		cfg.File = flagFile
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, _ := cfg.Level()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewAppContext creates an AppContext from the environment and global flags.
// Logs go to stderr: stdout is reserved for command output and the MCP stream.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newAppContext(ctx, cfg, newLogger(os.Stderr, cfg))
}

func newAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*AppContext, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &AppContext{Config: cfg, Logger: logger}

	switch cfg.Backend {
	case config.BackendTurso:
		db, err := turso.NewDB(cfg.TursoDatabaseURL, cfg.TursoAuthToken, turso.Options{Ping: true})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DB = db
		a.Store = turso.NewSessionStore(db, logger)
	default:
		a.Store = storage.NewFileStore(cfg.SessionsFile(), logger)
	}

	if otelCfg := cfg.OTEL(); otelCfg.Active() {
		exporter, err := otel.NewExporter(ctx, otelCfg)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to start metrics exporter: %w", err)
		}
		a.Exporter = exporter
	} else {
		a.Exporter = otel.NewNoOpExporter()
	}

	a.Sessions = sessions.NewService(a.Store, sessions.WithExporter(a.Exporter), sessions.WithLogger(logger))
	a.Insights = analytics.NewService(a.Store, logger, analytics.WithLocation(loc))
	a.Surface = query.New(a.Sessions, a.Insights, logger)

	logger.Debug("app context ready", "backend", cfg.Backend)
	return a, nil
}

// Close releases all resources held by the AppContext. Closing the store
// also closes DB.
func (a *AppContext) Close() error {
	var errs []error
	if a.Exporter != nil {
		errs = append(errs, a.Exporter.Close(context.Background()))
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	} else if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

// withApp builds an AppContext for a single command run and closes it afterwards.
func withApp(cmd *cobra.Command, run func(ctx context.Context, app *AppContext) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Warn("failed to close resources", "error", err)
		}
	}()

	return run(ctx, app)
}
