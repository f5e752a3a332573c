package session

import (
	"sync"
)

// Manager is a registry of independent sessions keyed by session id. The
// zero-key default session backs single-client use; explicit ids support
// multiple concurrent clients, each with its own circuit and result.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	def      *Session
}

// NewManager creates a manager with an empty default session.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		def:      New(),
	}
}

// Default returns the manager's default session.
func (m *Manager) Default() *Session {
	return m.def
}

// Create registers and returns a new session.
func (m *Manager) Create() *Session {
	s := New()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id, or the default session when id
// is empty. Unknown ids return nil.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		return m.def
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Delete removes a session from the registry.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of explicitly created sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
