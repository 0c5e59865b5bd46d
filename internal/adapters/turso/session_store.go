package turso

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/ports"
)

// SessionStore reads and writes sessions directly against a libsql database.
// Every call is a round trip; there is no client-side cache.
type SessionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSessionStore(db *sql.DB, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SessionStore{db: db, logger: logger}
}

var selectColumns = strings.Join(sessionColumns, ", ")

// Load is a no-op: data lives in the database.
func (r *SessionStore) Load(ctx context.Context) error { return nil }

// Save is a no-op: writes are applied immediately.
func (r *SessionStore) Save(ctx context.Context) error { return nil }

func (r *SessionStore) CreateSession(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	row, err := toRow(session)
	if err != nil {
		return nil, &domain.StorageError{Op: "create session", Err: err}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(sessionColumns)), ", ")
	query := `INSERT INTO sessions (` + selectColumns + `) VALUES (` + placeholders + `) RETURNING ` + selectColumns

	var created sessionRow
	if err := r.db.QueryRowContext(ctx, query, row.values()...).Scan(created.scanTargets()...); err != nil {
		return nil, &domain.StorageError{Op: "create session", Err: err}
	}

	s, err := fromRow(created)
	if err != nil {
		return nil, &domain.StorageError{Op: "create session", Err: err}
	}
	r.logger.Debug("created session", "id", s.ID)
	return s, nil
}

func (r *SessionStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var row sessionRow
	err := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM sessions WHERE id = ?`, id).Scan(row.scanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get session", Err: err}
	}

	s, err := fromRow(row)
	if err != nil {
		return nil, &domain.StorageError{Op: "get session", Err: err}
	}
	return s, nil
}

func (r *SessionStore) GetAllSessions(ctx context.Context) ([]*domain.Session, error) {
	return r.query(ctx, "get all sessions", `SELECT `+selectColumns+` FROM sessions ORDER BY timestamp DESC`)
}

func (r *SessionStore) GetSessionsSince(ctx context.Context, since int64) ([]*domain.Session, error) {
	return r.query(ctx, "get sessions since", `SELECT `+selectColumns+` FROM sessions WHERE timestamp >= ? ORDER BY timestamp DESC`, since)
}

func (r *SessionStore) GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = ports.DefaultRecentLimit
	}
	return r.query(ctx, "get recent sessions", `SELECT `+selectColumns+` FROM sessions ORDER BY timestamp DESC LIMIT ?`, limit)
}

func (r *SessionStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}
	return sessions, nil
}

func (r *SessionStore) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, &domain.StorageError{Op: "delete session", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &domain.StorageError{Op: "delete session", Err: err}
	}
	r.logger.Debug("deleted session", "id", id, "removed", n > 0)
	return n > 0, nil
}

func (r *SessionStore) ClearAllSessions(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return &domain.StorageError{Op: "clear sessions", Err: err}
	}
	r.logger.Debug("cleared all sessions")
	return nil
}

func (r *SessionStore) Close() error {
	return r.db.Close()
}
