package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

// Graph is an undirected connectivity graph keyed by node ID.
type Graph struct {
	adj map[string]map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string]map[string]struct{})}
}

// AddNode adds id if it is not present.
func (g *Graph) AddNode(id string) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[string]struct{})
	}
}

// Connect links a and b, adding either if missing. Self loops are ignored.
func (g *Graph) Connect(a, b string) {
	g.AddNode(a)
	g.AddNode(b)
	if a == b {
		return
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
}

// Connected reports whether a and b share an edge.
func (g *Graph) Connected(a, b string) bool {
	_, ok := g.adj[a][b]
	return ok
}

// Nodes returns node IDs in ascending order.
func (g *Graph) Nodes() []string {
	return slices.Sorted(maps.Keys(g.adj))
}

// Neighbors returns the neighbours of id in ascending order.
func (g *Graph) Neighbors(id string) []string {
	return slices.Sorted(maps.Keys(g.adj[id]))
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.adj) }

// FromSnapshot builds the graph from snapshot data: every component and
// interface is a node, each interface is linked to its offering component
// and to each consumer. References to unknown components are ignored.
func FromSnapshot(s *snapshot.Snapshot) *Graph {
	g := NewGraph()
	for _, id := range s.ComponentIDs() {
		g.AddNode(id)
	}
	for _, id := range s.InterfaceIDs() {
		iface := s.Interfaces[id]
		g.AddNode(id)
		if _, ok := s.Components[iface.OfferedByID]; ok {
			g.Connect(iface.OfferedByID, id)
		}
		for _, c := range iface.Consumers() {
			if _, ok := s.Components[c]; ok {
				g.Connect(c, id)
			}
		}
	}
	return g
}

// FromDiagram builds the graph from a drawn diagram: components and
// interfaces are nodes, provision and consumption edges link them.
func FromDiagram(d *diagram.Diagram) *Graph {
	g := NewGraph()
	for _, n := range d.Nodes() {
		switch n.Kind {
		case diagram.KindComponent, diagram.KindInterface:
			g.AddNode(n.ID)
		case diagram.KindIssueGroupContainer, diagram.KindIssueFolder:
		}
	}
	for _, e := range d.Edges() {
		switch e.Kind {
		case diagram.EdgeProvision, diagram.EdgeConsumption:
			if g.has(e.Source) && g.has(e.Target) {
				g.Connect(e.Source, e.Target)
			}
		case diagram.EdgeDraggedConsumer, diagram.EdgeRelation:
		}
	}
	return g
}

func (g *Graph) has(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// components returns the connected components, each in BFS order, ordered
// by their smallest node ID.
func (g *Graph) components() [][]string {
	seen := make(map[string]bool, len(g.adj))
	var out [][]string
	for _, start := range g.Nodes() {
		if seen[start] {
			continue
		}
		seen[start] = true
		queue := []string{start}
		for i := 0; i < len(queue); i++ {
			for _, next := range g.Neighbors(queue[i]) {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		out = append(out, queue)
	}
	return out
}
