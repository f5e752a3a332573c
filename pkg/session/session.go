// Package session owns the per-session editing state: one circuit plus the
// most recent analysis result. All mutations and analysis runs on a session
// are serialized behind a single lock, so Run always sees a consistent
// snapshot of the model.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ritzau/circuit-workbench/pkg/analysis"
	"github.com/ritzau/circuit-workbench/pkg/catalog"
	"github.com/ritzau/circuit-workbench/pkg/model"
)

// Session is an independently owned circuit/result pair. Sessions are never
// shared between clients; each client gets its own.
type Session struct {
	ID string

	mu      sync.Mutex
	circuit *model.Circuit
	result  *analysis.Result
}

// New creates an empty session with a fresh id.
func New() *Session {
	return &Session{
		ID:      uuid.NewString(),
		circuit: model.New(),
	}
}

// AddComponent places a component and returns a copy of the new instance.
func (s *Session) AddComponent(t catalog.Type, x, y float64) (model.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comp, err := s.circuit.AddComponent(t, x, y)
	if err != nil {
		return model.Component{}, err
	}
	return comp.Clone(), nil
}

// AddConnection records a connection between two component ids.
func (s *Session) AddConnection(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.circuit.AddConnection(from, to)
}

// UpdateParams replaces a component's parameter map.
func (s *Session) UpdateParams(id int, params map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.circuit.UpdateParams(id, params)
}

// Clear empties the circuit and restarts id allocation. The stored analysis
// result is deliberately left in place even though it is now stale; callers
// that care compare it against the current circuit.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circuit.Clear()
}

// Analyze runs the engine over the current circuit, stores the result as
// the session's latest, and returns it. Each run fully replaces the prior
// result.
func (s *Session) Analyze() *analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = analysis.Run(s.circuit)
	return s.result
}

// Result returns the latest stored analysis result, or nil before the first
// run.
func (s *Session) Result() *analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Snapshot returns decoupled copies of the session's components and
// connections.
func (s *Session) Snapshot() ([]model.Component, []model.Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.circuit.Snapshot()
}

// Replace swaps in a different circuit, e.g. one loaded from disk.
func (s *Session) Replace(c *model.Circuit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circuit = c
}

// Find returns a copy of the component with the given id.
func (s *Session) Find(id int) (model.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comp, err := s.circuit.Find(id)
	if err != nil {
		return model.Component{}, err
	}
	return comp.Clone(), nil
}
