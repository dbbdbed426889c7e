package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// StoredSession is what survives a restart: the bearer token and the
// identity it belonged to, saved and cleared as one unit. A token without
// its identity (or the reverse) is never observable.
type StoredSession struct {
	Token string        `json:"token"`
	User  auth.Identity `json:"user"`
}

// ErrNoSession is returned by Storage.Load when nothing is stored.
var ErrNoSession = errors.New("session: no stored session")

// Storage persists a session across process restarts.
type Storage interface {
	// Load returns the stored session, or ErrNoSession when there is none.
	Load() (*StoredSession, error)

	// Save replaces the stored session.
	Save(s *StoredSession) error

	// Clear removes the stored session. Clearing an empty store is not an
	// error.
	Clear() error
}

// FileStorage persists the session as a JSON file. Writes go through a
// temp file and rename so a crash mid-write never leaves a torn session
// on disk.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates storage at the given path. Parent directories are
// created on the first Save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() (*StoredSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var s StoredSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

func (f *FileStorage) Save(s *StoredSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("restricting session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

func (f *FileStorage) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// MemoryStorage keeps the session in memory. Used in tests and in programs
// that don't want persistence.
type MemoryStorage struct {
	mu sync.Mutex
	s  *StoredSession
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (*StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.s == nil {
		return nil, ErrNoSession
	}
	copied := *m.s
	return &copied, nil
}

func (m *MemoryStorage) Save(s *StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *s
	m.s = &copied
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.s = nil
	return nil
}
