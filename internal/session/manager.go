package session

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Manager is the one place that reads and writes login state. Components
// that need the token take a *Manager instead of touching the store, and
// register OnInvalidate callbacks to learn about logout or expiry.
type Manager struct {
	mu        sync.Mutex
	store     SessionStore
	current   *Session
	listeners []func(Reason)
}

// NewManager loads any saved session from store.
func NewManager(store SessionStore) (*Manager, error) {
	m := &Manager{store: store}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload re-reads the session file. A missing file leaves the manager
// logged out without error.
func (m *Manager) Reload() error {
	s, err := m.store.Load()
	if err != nil && !errors.Is(err, ErrNoSession) {
		return err
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return nil
}

// Token returns the bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Current returns a copy of the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// LoggedIn reports whether a token is held.
func (m *Manager) LoggedIn() bool {
	return m.Token() != ""
}

// Login stores s as the active session.
func (m *Manager) Login(s *Session) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}
	if err := m.store.Save(s); err != nil {
		return err
	}
	m.mu.Lock()
	c := *s
	m.current = &c
	m.mu.Unlock()
	log.WithField("user", s.Username).Info("session stored")
	return nil
}

// Logout clears the session and notifies listeners.
func (m *Manager) Logout() error {
	return m.Invalidate(ReasonLogout)
}

// Invalidate drops the session for the given reason and notifies listeners.
// Listeners run even when the manager was already logged out.
func (m *Manager) Invalidate(reason Reason) error {
	err := m.store.Delete()

	m.mu.Lock()
	m.current = nil
	listeners := append([]func(Reason){}, m.listeners...)
	m.mu.Unlock()

	log.WithField("reason", reason).Info("session invalidated")
	for _, fn := range listeners {
		fn(reason)
	}
	return err
}

// OnInvalidate registers fn to run after every invalidation.
func (m *Manager) OnInvalidate(fn func(Reason)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}
