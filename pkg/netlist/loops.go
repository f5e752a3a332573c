package netlist

import (
	"sort"

	"gonum.org/v1/gonum/graph"
)

// Loop is a set of components whose connections form a closed loop. The
// renderer highlights loops so a user can see which parts of the schematic
// are wired back on themselves.
type Loop struct {
	Components []int `json:"components"`
}

// Loops finds closed connection loops using Tarjan's strongly connected
// components. Single components without a self-loop are not reported.
func (g *Graph) Loops() []Loop {
	t := &tarjanSCC{
		graph:   g.graph,
		onStack: make(map[int64]bool),
		indices: make(map[int64]int),
		lowLink: make(map[int64]int),
	}

	var loops []Loop
	for _, scc := range t.findSCCs() {
		ids := make([]int, 0, len(scc))
		for _, nodeID := range scc {
			ids = append(ids, g.comps[nodeID])
		}
		sort.Ints(ids)
		loops = append(loops, Loop{Components: ids})
	}

	sort.Slice(loops, func(i, j int) bool {
		return loops[i].Components[0] < loops[j].Components[0]
	})
	return loops
}

type tarjanSCC struct {
	graph   graph.Directed
	index   int
	stack   []int64
	onStack map[int64]bool
	indices map[int64]int
	lowLink map[int64]int
	sccs    [][]int64
}

func (t *tarjanSCC) findSCCs() [][]int64 {
	nodes := t.graph.Nodes()
	for nodes.Next() {
		node := nodes.Node()
		if _, visited := t.indices[node.ID()]; !visited {
			t.strongConnect(node.ID())
		}
	}
	return t.sccs
}

func (t *tarjanSCC) strongConnect(nodeID int64) {
	t.indices[nodeID] = t.index
	t.lowLink[nodeID] = t.index
	t.index++

	t.stack = append(t.stack, nodeID)
	t.onStack[nodeID] = true

	successors := t.graph.From(nodeID)
	for successors.Next() {
		successorID := successors.Node().ID()

		if _, visited := t.indices[successorID]; !visited {
			t.strongConnect(successorID)
			if t.lowLink[successorID] < t.lowLink[nodeID] {
				t.lowLink[nodeID] = t.lowLink[successorID]
			}
		} else if t.onStack[successorID] {
			if t.indices[successorID] < t.lowLink[nodeID] {
				t.lowLink[nodeID] = t.indices[successorID]
			}
		}
	}

	if t.lowLink[nodeID] == t.indices[nodeID] {
		var scc []int64
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == nodeID {
				break
			}
		}
		// A single node is only a loop if it has a multi-node cycle;
		// self-connections are rejected at the model layer.
		if len(scc) > 1 {
			t.sccs = append(t.sccs, scc)
		}
	}
}
