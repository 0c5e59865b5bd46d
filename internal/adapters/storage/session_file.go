package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/ports"
)

// FileStore keeps every session in memory and persists them as a single
// JSON array, rewritten in full on every mutation. The file is loaded
// lazily on first use. There is no cross-process locking: the last save wins.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	sessions []*domain.Session
	loaded   bool
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no existing sessions file, starting fresh", "path", s.path)
		s.sessions = nil
		s.loaded = true
		return nil
	}
	if err != nil {
		return ioError("read", s.path, err)
	}

	var sessions []*domain.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return &domain.IOError{Op: "decode", Path: s.path, Err: err}
	}

	s.sessions = sessions
	s.loaded = true
	s.logger.Debug("loaded sessions", "count", len(sessions), "path", s.path)
	return nil
}

func (s *FileStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *FileStore) saveLocked() error {
	sessions := s.sessions
	if sessions == nil {
		sessions = []*domain.Session{}
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return &domain.IOError{Op: "encode", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return ioError("write", s.path, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ioError("write", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return ioError("write", s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return ioError("write", s.path, err)
	}

	s.logger.Debug("saved sessions", "count", len(sessions), "path", s.path)
	return nil
}

func (s *FileStore) CreateSession(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	for _, existing := range s.sessions {
		if existing.ID == session.ID {
			return nil, fmt.Errorf("session %s already exists", session.ID)
		}
	}

	s.sessions = append(s.sessions, session.Clone())
	if err := s.saveLocked(); err != nil {
		s.sessions = s.sessions[:len(s.sessions)-1]
		return nil, err
	}
	return session.Clone(), nil
}

func (s *FileStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	for _, session := range s.sessions {
		if session.ID == id {
			return session.Clone(), nil
		}
	}
	return nil, nil
}

func (s *FileStore) GetAllSessions(ctx context.Context) ([]*domain.Session, error) {
	return s.selectSessions(func(*domain.Session) bool { return true }, 0)
}

func (s *FileStore) GetSessionsSince(ctx context.Context, since int64) ([]*domain.Session, error) {
	return s.selectSessions(func(session *domain.Session) bool { return session.Timestamp >= since }, 0)
}

func (s *FileStore) GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = ports.DefaultRecentLimit
	}
	return s.selectSessions(func(*domain.Session) bool { return true }, limit)
}

// selectSessions returns clones of the matching sessions, newest first,
// truncated to limit when limit is positive.
func (s *FileStore) selectSessions(keep func(*domain.Session) bool, limit int) ([]*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	out := make([]*domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if keep(session) {
			out = append(out, session.Clone())
		}
	}
	domain.SortByTimestampDesc(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *FileStore) DeleteSession(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return false, err
	}

	kept := make([]*domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.ID != id {
			kept = append(kept, session)
		}
	}
	if len(kept) == len(s.sessions) {
		return false, nil
	}

	previous := s.sessions
	s.sessions = kept
	if err := s.saveLocked(); err != nil {
		s.sessions = previous
		return false, err
	}
	return true, nil
}

func (s *FileStore) ClearAllSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, wasLoaded := s.sessions, s.loaded
	s.sessions = nil
	s.loaded = true
	if err := s.saveLocked(); err != nil {
		s.sessions, s.loaded = previous, wasLoaded
		return err
	}
	return nil
}

// ioError wraps a filesystem failure. The op and path of an *fs.PathError
// or *os.LinkError are dropped so they are not printed twice.
func ioError(op, path string, err error) *domain.IOError {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	switch {
	case errors.As(err, &pathErr):
		err = pathErr.Err
	case errors.As(err, &linkErr):
		err = linkErr.Err
	}
	return &domain.IOError{Op: op, Path: path, Err: err}
}

func (s *FileStore) Close() error {
	return nil
}
