package session

import (
	"errors"
	"sync"
)

// ErrUnknownSession means no session exists for the given id.
var ErrUnknownSession = errors.New("unknown session")

// Manager keeps the live sessions, one per player.
type Manager struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions share opts.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts.withDefaults(), sessions: make(map[string]*Session)}
}

// Create starts a new empty session.
func (m *Manager) Create() *Session {
	s := New(m.opts.NewID(), m.opts)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session for id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

// Delete forgets a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
