package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/sensorystats/internal/adapters/otel"
	"github.com/emiliopalmerini/sensorystats/internal/util"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendTurso = "turso"
)

// Config is read once at startup from the environment.
type Config struct {
	Backend  string `envconfig:"SENSORYSTATS_BACKEND" default:"file"`
	File     string `envconfig:"SENSORYSTATS_FILE"`
	HTTPAddr string `envconfig:"SENSORYSTATS_HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"SENSORYSTATS_LOG_LEVEL" default:"info"`
	Timezone string `envconfig:"SENSORYSTATS_TIMEZONE"`

	TursoDatabaseURL string `envconfig:"TURSO_DATABASE_URL"`
	TursoAuthToken   string `envconfig:"TURSO_AUTH_TOKEN"`

	OTELEnabled  bool   `envconfig:"SENSORYSTATS_OTEL_ENABLED"`
	OTELEndpoint string `envconfig:"SENSORYSTATS_OTEL_ENDPOINT"`
	OTELInsecure bool   `envconfig:"SENSORYSTATS_OTEL_INSECURE"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the backend selection and its required settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
	case BackendTurso:
		if c.TursoDatabaseURL == "" {
			return fmt.Errorf("TURSO_DATABASE_URL is required for the %s backend", BackendTurso)
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendTurso)
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// SessionsFile returns the local store path, defaulting to the home directory.
func (c *Config) SessionsFile() string {
	if c.File != "" {
		return c.File
	}
	return util.DefaultSessionsFile()
}

// Level parses LogLevel as a slog level name.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Location resolves Timezone, falling back to the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// OTEL returns the metrics exporter settings.
func (c *Config) OTEL() otel.Config {
	return otel.Config{
		Endpoint: c.OTELEndpoint,
		Enabled:  c.OTELEnabled,
		Insecure: c.OTELInsecure,
	}
}
