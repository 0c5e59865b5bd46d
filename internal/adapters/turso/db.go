package turso

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// Options configures the connection.
type Options struct {
	Ping bool
}

// NewDB opens a libsql connection. Remote URLs get the auth token appended;
// local "file:" URLs are opened as-is.
func NewDB(databaseURL, authToken string, opts Options) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("TURSO_DATABASE_URL is required")
	}

	connStr := databaseURL
	if !strings.HasPrefix(databaseURL, "file:") {
		if authToken == "" {
			return nil, fmt.Errorf("TURSO_AUTH_TOKEN is required for %s", databaseURL)
		}
		connStr = databaseURL + "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Turso closes idle Hrana streams aggressively; stale idle connections
	// surface as "stream not found", so keep none around.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(0)

	if opts.Ping {
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	return db, nil
}
