package sessions

import (
	"context"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

// MockStore is a mock implementation of ports.SessionStore for testing.
type MockStore struct {
	LoadFunc              func(ctx context.Context) error
	SaveFunc              func(ctx context.Context) error
	CreateSessionFunc     func(ctx context.Context, s *domain.Session) (*domain.Session, error)
	GetSessionFunc        func(ctx context.Context, id string) (*domain.Session, error)
	GetAllSessionsFunc    func(ctx context.Context) ([]*domain.Session, error)
	GetSessionsSinceFunc  func(ctx context.Context, since int64) ([]*domain.Session, error)
	GetRecentSessionsFunc func(ctx context.Context, limit int) ([]*domain.Session, error)
	DeleteSessionFunc     func(ctx context.Context, id string) (bool, error)
	ClearAllSessionsFunc  func(ctx context.Context) error
}

func (m *MockStore) Load(ctx context.Context) error {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return nil
}

func (m *MockStore) Save(ctx context.Context) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx)
	}
	return nil
}

func (m *MockStore) CreateSession(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, s)
	}
	return s.Clone(), nil
}

func (m *MockStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) GetAllSessions(ctx context.Context) ([]*domain.Session, error) {
	if m.GetAllSessionsFunc != nil {
		return m.GetAllSessionsFunc(ctx)
	}
	return []*domain.Session{}, nil
}

func (m *MockStore) GetSessionsSince(ctx context.Context, since int64) ([]*domain.Session, error) {
	if m.GetSessionsSinceFunc != nil {
		return m.GetSessionsSinceFunc(ctx, since)
	}
	return []*domain.Session{}, nil
}

func (m *MockStore) GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	if m.GetRecentSessionsFunc != nil {
		return m.GetRecentSessionsFunc(ctx, limit)
	}
	return []*domain.Session{}, nil
}

func (m *MockStore) DeleteSession(ctx context.Context, id string) (bool, error) {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, id)
	}
	return false, nil
}

func (m *MockStore) ClearAllSessions(ctx context.Context) error {
	if m.ClearAllSessionsFunc != nil {
		return m.ClearAllSessionsFunc(ctx)
	}
	return nil
}

func (m *MockStore) Close() error {
	return nil
}
