// Package session implements the login gate. Logging in only requires a
// non-empty email and password; there are no accounts behind it.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/chrissnell/myweather/internal/lookup"
	"github.com/chrissnell/myweather/internal/preferences"
	"github.com/chrissnell/myweather/pkg/units"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNoSession          = errors.New("session not found")
)

// Session is one logged-in user. The unit system is loaded from preferences
// when the session starts and handed to every lookup from then on.
type Session struct {
	ID        uuid.UUID
	Email     string
	StartedAt time.Time

	mu      sync.RWMutex
	units   units.System
	tracker lookup.Tracker
}

// Units returns the session's unit system.
func (s *Session) Units() units.System {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.units
}

// Tracker returns the lookup tracker of the session.
func (s *Session) Tracker() *lookup.Tracker {
	return &s.tracker
}

func (s *Session) setUnits(u units.System) {
	s.mu.Lock()
	s.units = u
	s.mu.Unlock()
}

// Manager holds the active sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	prefs    *preferences.Service
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewManager(prefs *preferences.Service, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		prefs:    prefs,
		logger:   logger,
		now:      time.Now,
	}
}

// Login starts a session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	sess := &Session{
		ID:        uuid.New(),
		Email:     email,
		StartedAt: m.now(),
		units:     m.prefs.Units(ctx),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.logger.Infof("session %s started for %s (%s)", sess.ID, email, sess.units)
	return sess, nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// Lookup parses a session ID string and returns the session.
func (m *Manager) Lookup(token string) (*Session, error) {
	id, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, ErrNoSession
	}
	return m.Get(id)
}

// Logout ends a session. Ending an unknown session is not an error.
func (m *Manager) Logout(id uuid.UUID) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		m.logger.Infof("session %s for %s ended", id, sess.Email)
	}
}

// SetUnits saves the unit preference and applies it to the session.
func (m *Manager) SetUnits(ctx context.Context, id uuid.UUID, u units.System) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := m.prefs.SetUnits(ctx, u); err != nil {
		return err
	}
	sess.setUnits(u)
	return nil
}

// ToggleUnits switches the session to the other unit system. On a storage
// failure the session keeps its current system.
func (m *Manager) ToggleUnits(ctx context.Context, id uuid.UUID) (units.System, error) {
	sess, err := m.Get(id)
	if err != nil {
		return "", err
	}
	next := sess.Units().Toggle()
	if err := m.prefs.SetUnits(ctx, next); err != nil {
		return sess.Units(), err
	}
	sess.setUnits(next)
	return next, nil
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
