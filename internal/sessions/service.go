package sessions

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/ports"
)

// DefaultRecentDays is the window used when Recent is called without a positive day count.
const DefaultRecentDays = 7

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Service is the single entry point for session persistence. It assigns
// identity and creation time and delegates storage to a ports.SessionStore.
type Service struct {
	store    ports.SessionStore
	exporter ports.MetricsExporter
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used to stamp and window sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithExporter reports every created session to a metrics exporter.
func WithExporter(exp ports.MetricsExporter) Option {
	return func(s *Service) { s.exporter = exp }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(store ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Store exposes the underlying backend for read-only analytics.
func (s *Service) Store() ports.SessionStore {
	return s.store
}

// Create validates the request, stamps a fresh id and the current time and persists it.
func (s *Service) Create(ctx context.Context, req domain.CreateSessionRequest) (*domain.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session := req.NewSession(uuid.NewString(), s.now().UnixMilli())
	created, err := s.store.CreateSession(ctx, session)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session recorded", "id", created.ID, "theme", created.Theme, "touches", created.Touches)

	if s.exporter != nil {
		if err := s.exporter.RecordSession(ctx, created); err != nil {
			s.logger.Warn("failed to export session metrics", "id", created.ID, "error", err)
		}
	}

	return created, nil
}

// Get returns the session with id, or nil if none exists.
func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.GetSession(ctx, id)
}

// List returns the newest limit sessions, or every session when limit <= 0.
func (s *Service) List(ctx context.Context, limit int) ([]*domain.Session, error) {
	if limit > 0 {
		return s.store.GetRecentSessions(ctx, limit)
	}
	return s.store.GetAllSessions(ctx)
}

// Recent returns sessions recorded in the last days days, newest first.
func (s *Service) Recent(ctx context.Context, days int) ([]*domain.Session, error) {
	if days <= 0 {
		days = DefaultRecentDays
	}
	since := s.now().UnixMilli() - int64(days)*dayMillis
	return s.store.GetSessionsSince(ctx, since)
}

func (s *Service) Remove(ctx context.Context, id string) (bool, error) {
	return s.store.DeleteSession(ctx, id)
}

func (s *Service) Clear(ctx context.Context) error {
	return s.store.ClearAllSessions(ctx)
}

// Export builds a snapshot of every session at the current time.
func (s *Service) Export(ctx context.Context) (domain.Export, error) {
	all, err := s.store.GetAllSessions(ctx)
	if err != nil {
		return domain.Export{}, err
	}
	return domain.NewExport(all, s.now()), nil
}

// ExportAll renders Export as indented JSON.
func (s *Service) ExportAll(ctx context.Context) (string, error) {
	export, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	return export.MarshalIndented()
}

// ImportResult counts what Import did with each incoming session.
type ImportResult struct {
	Added    int
	Existing int
	Invalid  int
}

// Import stores the sessions whose ids are not present yet, keeping their
// incoming ids and timestamps. Sessions without an id or failing validation
// are counted as invalid and skipped.
func (s *Service) Import(ctx context.Context, list []*domain.Session) (ImportResult, error) {
	var result ImportResult
	for _, session := range list {
		if session == nil || session.ID == "" {
			result.Invalid++
			continue
		}
		if err := session.Validate(); err != nil {
			s.logger.Warn("skipping invalid session", "id", session.ID, "error", err)
			result.Invalid++
			continue
		}
		existing, err := s.store.GetSession(ctx, session.ID)
		if err != nil {
			return result, err
		}
		if existing != nil {
			result.Existing++
			continue
		}
		if _, err := s.store.CreateSession(ctx, session); err != nil {
			return result, err
		}
		result.Added++
	}

	s.logger.Info("imported sessions", "added", result.Added, "existing", result.Existing, "invalid", result.Invalid)
	return result, nil
}
