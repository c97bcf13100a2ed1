package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Session is the client's proof of login.
type Session struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file" | "memory"
	CreatedAt time.Time  `json:"created_at"` // when we saved it
	ExpiresAt *time.Time `json:"expires_at"` // optional (JWT or server-provided)
}

// Expired reports whether the session has a known expiry in the past.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Store keeps the session across the process (and, when remembered,
// across restarts).
type Store interface {
	Load() (*Session, error)
	Save(token string, expires *time.Time, remember bool) (*Session, error)
	Clear() error
}

// FileStore holds the session in memory and persists remembered ones to
// a credentials file. TADA_TOKEN overrides the file.
type FileStore struct {
	path string

	mu      sync.Mutex
	current *Session
	loaded  bool
}

// NewFileStore returns a store backed by path (usually ~/.tada/credentials.json).
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Token returns the current bearer token or "". It satisfies api.TokenSource.
func (f *FileStore) Token() string {
	s, _ := f.Load()
	if s == nil {
		return ""
	}
	return s.Token
}

func (f *FileStore) Load() (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded {
		return f.current, nil
	}
	s, err := f.read()
	if err != nil {
		return nil, err
	}
	f.current, f.loaded = s, true
	return s, nil
}

func (f *FileStore) read() (*Session, error) {
	// 1) env override
	if env := strings.TrimSpace(os.Getenv("TADA_TOKEN")); env != "" {
		return &Session{Token: stripBearer(env), Source: "env"}, nil
	}

	// 2) file
	if f.path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	s.Token = stripBearer(s.Token)
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// Save records a new session. Only remembered sessions touch the disk; the
// others last as long as the process.
func (f *FileStore) Save(token string, expires *time.Time, remember bool) (*Session, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	s := &Session{
		Token:     token,
		Source:    "memory",
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	if remember && f.path != "" {
		s.Source = "file"
		if err := f.write(s); err != nil {
			return nil, err
		}
	} else if err := f.remove(); err != nil {
		// a stale remembered token must not outlive this login
		return nil, err
	}

	f.mu.Lock()
	f.current, f.loaded = s, true
	f.mu.Unlock()
	return s, nil
}

func (f *FileStore) write(s *Session) error {
	// ensure ~/.tada exists with 0700
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// write with 0600 (owner-only)
	if err := os.WriteFile(f.path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Clear forgets the session. An env-provided token is only forgotten in
// memory.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	src := ""
	if f.current != nil {
		src = f.current.Source
	}
	f.current, f.loaded = nil, true
	f.mu.Unlock()
	if src == "env" {
		return nil
	}
	return f.remove()
}

func (f *FileStore) remove() error {
	if f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
