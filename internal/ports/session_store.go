package ports

import (
	"context"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

// DefaultRecentLimit is used by GetRecentSessions when limit is not positive.
const DefaultRecentLimit = 10

// SessionStore is the storage backend capability shared by the local file
// store and the remote relational store. List operations return sessions
// ordered by timestamp, newest first.
type SessionStore interface {
	// Load warms the backend. It is idempotent and safe to call before every operation.
	Load(ctx context.Context) error
	// Save flushes the backend.
	Save(ctx context.Context) error

	CreateSession(ctx context.Context, session *domain.Session) (*domain.Session, error)
	// GetSession returns nil, nil when no session has the given id.
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetAllSessions(ctx context.Context) ([]*domain.Session, error)
	// GetSessionsSince returns sessions with timestamp >= since (ms since epoch).
	GetSessionsSince(ctx context.Context, since int64) ([]*domain.Session, error)
	GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error)
	// DeleteSession reports whether a session was removed.
	DeleteSession(ctx context.Context, id string) (bool, error)
	ClearAllSessions(ctx context.Context) error

	Close() error
}
