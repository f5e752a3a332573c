package model

import (
	"errors"
	"fmt"

	"github.com/ritzau/circuit-workbench/pkg/catalog"
)

var (
	// ErrSelfConnection is returned when a connection references the same
	// component on both ends.
	ErrSelfConnection = errors.New("cannot connect component to itself")

	// ErrDuplicateConnection is returned when the exact ordered pair is
	// already connected.
	ErrDuplicateConnection = errors.New("connection already exists")

	// ErrComponentNotFound is returned when a component id cannot be
	// resolved in the circuit.
	ErrComponentNotFound = errors.New("component not found")
)

// Circuit is an ordered collection of components plus their connections and
// the monotonic id counter. Ids are never reused; only Clear resets the
// counter. Circuit is not safe for concurrent use; callers serialize access
// (see the session package).
type Circuit struct {
	components  []*Component
	connections []Connection
	nextID      int
}

// New creates an empty circuit.
func New() *Circuit {
	return &Circuit{}
}

// Restore rebuilds a circuit from previously exported state. The counter is
// raised to at least the highest component id so future allocations stay
// unique.
func Restore(components []Component, connections []Connection, nextID int) *Circuit {
	c := &Circuit{nextID: nextID}
	for i := range components {
		comp := components[i].Clone()
		c.components = append(c.components, &comp)
		if comp.ID > c.nextID {
			c.nextID = comp.ID
		}
	}
	c.connections = append(c.connections, connections...)
	return c
}

// AddComponent places a new component of the given catalog type at (x, y).
// The new component gets the next monotonic id (first id is 1) and a fresh
// copy of the type's default parameters.
func (c *Circuit) AddComponent(t catalog.Type, x, y float64) (*Component, error) {
	params, err := catalog.Defaults(t)
	if err != nil {
		return nil, err
	}

	c.nextID++
	comp := &Component{
		ID:     c.nextID,
		Type:   t,
		X:      x,
		Y:      y,
		Params: params,
	}
	c.components = append(c.components, comp)
	return comp, nil
}

// AddConnection records a directed connection between two component ids.
// Self-connections and exact ordered-pair duplicates are rejected. Endpoint
// existence is deliberately not checked here; dangling ids surface when a
// consumer resolves them with Find.
func (c *Circuit) AddConnection(from, to int) error {
	if from == to {
		return fmt.Errorf("%w: id %d", ErrSelfConnection, from)
	}
	for _, conn := range c.connections {
		if conn.From == from && conn.To == to {
			return fmt.Errorf("%w: %d -> %d", ErrDuplicateConnection, from, to)
		}
	}
	c.connections = append(c.connections, Connection{From: from, To: to})
	return nil
}

// UpdateParams replaces the component's entire parameter map with a copy of
// newParams. This is a full overwrite, not a merge: keys omitted from
// newParams are gone afterwards.
func (c *Circuit) UpdateParams(id int, newParams map[string]any) error {
	comp, err := c.Find(id)
	if err != nil {
		return err
	}
	comp.Params = copyParams(newParams)
	return nil
}

// Clear resets the circuit to empty and restarts id allocation at 1.
func (c *Circuit) Clear() {
	c.components = nil
	c.connections = nil
	c.nextID = 0
}

// Find returns the component with the given id.
func (c *Circuit) Find(id int) (*Component, error) {
	for _, comp := range c.components {
		if comp.ID == id {
			return comp, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrComponentNotFound, id)
}

// Components returns the placed components in insertion order. The returned
// slice is shared; callers that need a stable snapshot use Snapshot.
func (c *Circuit) Components() []*Component {
	return c.components
}

// Connections returns all recorded connections.
func (c *Circuit) Connections() []Connection {
	return c.connections
}

// Len returns the number of placed components.
func (c *Circuit) Len() int {
	return len(c.components)
}

// NextID reports the current value of the id counter (the id most recently
// allocated, or 0 for a fresh circuit).
func (c *Circuit) NextID() int {
	return c.nextID
}

// Snapshot returns deep copies of the components and connections, decoupled
// from any further mutation of the circuit.
func (c *Circuit) Snapshot() ([]Component, []Connection) {
	comps := make([]Component, 0, len(c.components))
	for _, comp := range c.components {
		comps = append(comps, comp.Clone())
	}
	conns := make([]Connection, len(c.connections))
	copy(conns, c.connections)
	return comps, conns
}
