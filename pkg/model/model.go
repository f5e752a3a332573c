// Package model defines the mutable circuit data model: placed component
// instances, connections between them, and the invariants governing identity
// and duplicate detection.
package model

import (
	"github.com/ritzau/circuit-workbench/pkg/catalog"
)

// Component is a placed, uniquely identified occurrence of a catalog type
// with its own parameter set. Params is seeded as a copy of the catalog
// defaults and is independently mutable afterwards.
type Component struct {
	ID     int            `json:"id"`
	Type   catalog.Type   `json:"type"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Params map[string]any `json:"params"`
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() Component {
	out := *c
	out.Params = copyParams(c.Params)
	return out
}

// Connection is a directed reference between two component ids. It is used
// for rendering adjacency only, never for electrical solving. The ordered
// pair (From, To) is the duplicate-detection key: (A,B) and (B,A) are
// distinct connections.
type Connection struct {
	From int `json:"from_comp"`
	To   int `json:"to_comp"`
}

func copyParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
