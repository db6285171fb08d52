package credstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Change describes a credential transition observed by subscribers.
type Change int

const (
	// ChangeLogin means a new token was saved after a successful login.
	ChangeLogin Change = iota
	// ChangeLogout means the user explicitly discarded the token.
	ChangeLogout
	// ChangeExpired means the token was evicted because it expired, failed to
	// decode, or the service rejected it with a 401.
	ChangeExpired
)

func (c Change) String() string {
	switch c {
	case ChangeLogin:
		return "login"
	case ChangeLogout:
		return "logout"
	case ChangeExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Store owns the single locally persisted bearer token. The token survives
// process restarts and is cleared on logout or detected expiry. Components
// that care about credential transitions register a subscriber instead of
// polling.
type Store struct {
	path string

	mu   sync.Mutex
	subs []func(Change)
}

// New returns a store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is the well-known token location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "clipstream", "token"), nil
}

// Token returns the stored token, or "" when none is present. A read failure
// is treated as no token.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save persists the token and notifies subscribers of a login.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := append([]func(Change){}, s.subs...)
	s.mu.Unlock()

	notify(subs, ChangeLogin)
	return nil
}

// Clear removes the stored token and notifies subscribers with the given
// reason. Clearing an already-empty store is not an error and does not
// notify.
func (s *Store) Clear(change Change) error {
	s.mu.Lock()
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	subs := append([]func(Change){}, s.subs...)
	s.mu.Unlock()

	notify(subs, change)
	return nil
}

// Evict discards the token after it was found expired or undecodable.
func (s *Store) Evict() error {
	return s.Clear(ChangeExpired)
}

// Subscribe registers fn to be called on every credential transition.
// Subscribers are invoked synchronously, outside the store's lock.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func notify(subs []func(Change), change Change) {
	for _, fn := range subs {
		fn(change)
	}
}
