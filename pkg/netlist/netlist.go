// Package netlist derives a rendering-adjacency graph from a circuit's
// connections. The graph carries no electrical meaning: it exists so the
// renderer and the UI can show wiring, degrees, and isolated component
// groups without any topology-aware solving.
package netlist

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/circuit-workbench/pkg/model"
)

// Graph is the connection adjacency graph of a circuit.
type Graph struct {
	graph    *simple.DirectedGraph
	ids      map[int]int64 // component id -> gonum node id
	comps    map[int64]int // gonum node id -> component id
	nextID   int64
	dangling []model.Connection
}

// Build constructs the adjacency graph for the circuit. Connections whose
// endpoints do not resolve to a placed component are collected as dangling
// and excluded from the graph; the model allows them to exist.
func Build(c *model.Circuit) *Graph {
	g := &Graph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[int]int64),
		comps: make(map[int64]int),
	}

	for _, comp := range c.Components() {
		g.addComponent(comp.ID)
	}

	for _, conn := range c.Connections() {
		fromID, fromOK := g.ids[conn.From]
		toID, toOK := g.ids[conn.To]
		if !fromOK || !toOK {
			g.dangling = append(g.dangling, conn)
			continue
		}
		if !g.graph.HasEdgeFromTo(fromID, toID) {
			g.graph.SetEdge(g.graph.NewEdge(g.graph.Node(fromID), g.graph.Node(toID)))
		}
	}

	return g
}

func (g *Graph) addComponent(componentID int) {
	if _, exists := g.ids[componentID]; exists {
		return
	}
	g.ids[componentID] = g.nextID
	g.comps[g.nextID] = componentID
	g.graph.AddNode(simple.Node(g.nextID))
	g.nextID++
}

// Degree returns the number of wires touching the component, counting both
// directions.
func (g *Graph) Degree(componentID int) int {
	id, ok := g.ids[componentID]
	if !ok {
		return 0
	}
	degree := 0
	for iter := g.graph.From(id); iter.Next(); {
		degree++
	}
	for iter := g.graph.To(id); iter.Next(); {
		degree++
	}
	return degree
}

// Dangling returns connections that reference component ids not present in
// the circuit.
func (g *Graph) Dangling() []model.Connection {
	return g.dangling
}

// Edges returns resolved connections as [from, to] component id pairs.
func (g *Graph) Edges() [][2]int {
	var edges [][2]int
	for iter := g.graph.Edges(); iter.Next(); {
		edge := iter.Edge()
		edges = append(edges, [2]int{g.comps[edge.From().ID()], g.comps[edge.To().ID()]})
	}
	return edges
}

// Groups returns the weakly connected component groups, each a sorted list
// of component ids, ordered by their smallest member. An unwired component
// forms a group of one.
func (g *Graph) Groups() [][]int {
	visited := make(map[int64]bool)
	var groups [][]int

	for id := int64(0); id < g.nextID; id++ {
		if visited[id] {
			continue
		}

		var group []int
		queue := []int64{id}
		visited[id] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			group = append(group, g.comps[cur])

			for iter := g.graph.From(cur); iter.Next(); {
				next := iter.Node().ID()
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
			for iter := g.graph.To(cur); iter.Next(); {
				next := iter.Node().ID()
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		sort.Ints(group)
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
	return groups
}
