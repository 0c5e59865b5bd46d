package ports

import (
	"context"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

// MetricsExporter exports session metrics to an external observability system.
type MetricsExporter interface {
	// RecordSession exports counters for a newly created session.
	RecordSession(ctx context.Context, s *domain.Session) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
