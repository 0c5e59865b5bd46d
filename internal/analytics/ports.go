package analytics

import (
	"context"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

// SessionReader supplies the full session history to analyze.
type SessionReader interface {
	GetAllSessions(ctx context.Context) ([]*domain.Session, error)
}

// Logger defines the interface for logging
type Logger interface {
	Debug(msg string, args ...any)
}
