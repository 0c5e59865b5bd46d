package analytics

import (
	"context"
	"time"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

// Service fetches the session history and runs one computation over it.
type Service struct {
	repo   SessionReader
	logger Logger
	now    func() time.Time
	loc    *time.Location
}

type Option func(*Service)

// WithClock overrides the time source used for window boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the calendar used for hours, weekdays and dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a new analytics service
func NewService(repo SessionReader, logger Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) load(ctx context.Context, what string) ([]*domain.Session, time.Time, error) {
	s.logger.Debug("computing insight", "insight", what)
	sessions, err := s.repo.GetAllSessions(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	return sessions, s.now().In(s.loc), nil
}

func (s *Service) WeeklySummary(ctx context.Context) (WeeklySummary, error) {
	sessions, now, err := s.load(ctx, "weekly-summary")
	if err != nil {
		return WeeklySummary{}, err
	}
	return ComputeWeeklySummary(sessions, now), nil
}

func (s *Service) ThemeRankings(ctx context.Context) ([]ThemeRanking, error) {
	sessions, _, err := s.load(ctx, "themes")
	if err != nil {
		return nil, err
	}
	return ComputeThemeRankings(sessions), nil
}

func (s *Service) ColorEngagement(ctx context.Context) ([]ColorEngagement, error) {
	sessions, _, err := s.load(ctx, "colors")
	if err != nil {
		return nil, err
	}
	return ComputeColorEngagement(sessions), nil
}

func (s *Service) TimingPatterns(ctx context.Context) (TimingPatterns, error) {
	sessions, _, err := s.load(ctx, "timing")
	if err != nil {
		return TimingPatterns{}, err
	}
	return ComputeTimingPatterns(sessions, s.loc), nil
}

func (s *Service) EngagementTrends(ctx context.Context) (EngagementTrends, error) {
	sessions, _, err := s.load(ctx, "trends")
	if err != nil {
		return EngagementTrends{}, err
	}
	return ComputeEngagementTrends(sessions, s.loc), nil
}

func (s *Service) CompareWeeks(ctx context.Context) (WeekComparison, error) {
	sessions, now, err := s.load(ctx, "comparison")
	if err != nil {
		return WeekComparison{}, err
	}
	return CompareWeeks(sessions, now), nil
}
