package diagram

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Diagram.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Diagram.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Diagram.AddEdge] when an edge with the
	// same ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownNode is returned when an operation references a node that is
	// not in the diagram.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [Diagram.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Diagram.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrAlreadyGrouped is returned by [Diagram.AddToGroup] when the child
	// already belongs to a different group.
	ErrAlreadyGrouped = errors.New("node already belongs to a group")
)

// Diagram is the live node and edge set of one project view.
//
// Nodes keep insertion order, which is also render order. The zero value is
// not usable; call [New].
type Diagram struct {
	nodes   []*Node
	index   map[string]*Node
	edges   []Edge
	edgeIDs map[string]struct{}
}

// New creates an empty diagram.
func New() *Diagram {
	return &Diagram{
		index:   make(map[string]*Node),
		edgeIDs: make(map[string]struct{}),
	}
}

// AddNode adds a copy of n and returns the stored node.
// Returns ErrInvalidNodeID or ErrDuplicateNodeID.
func (d *Diagram) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := d.index[n.ID]; exists {
		return nil, ErrDuplicateNodeID
	}
	node := &n
	d.nodes = append(d.nodes, node)
	d.index[node.ID] = node
	return node, nil
}

// AddEdge adds an edge between two existing nodes.
// Returns ErrUnknownSourceNode, ErrUnknownTargetNode or ErrDuplicateEdgeID.
func (d *Diagram) AddEdge(e Edge) error {
	if _, ok := d.index[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.index[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	if e.ID == "" {
		e.ID = e.Kind.String() + ":" + e.Source + "->" + e.Target
	}
	if _, dup := d.edgeIDs[e.ID]; dup {
		return ErrDuplicateEdgeID
	}
	d.edges = append(d.edges, e)
	d.edgeIDs[e.ID] = struct{}{}
	return nil
}

// RemoveEdge removes the edge with the given ID. Missing edges are ignored.
func (d *Diagram) RemoveEdge(id string) {
	if _, ok := d.edgeIDs[id]; !ok {
		return
	}
	delete(d.edgeIDs, id)
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.ID == id })
}

// Node returns the node with the given ID.
func (d *Diagram) Node(id string) (*Node, bool) {
	n, ok := d.index[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
// The slice is a copy; the nodes are shared.
func (d *Diagram) Nodes() []*Node {
	return slices.Clone(d.nodes)
}

// Edges returns all edges in insertion order.
func (d *Diagram) Edges() []Edge {
	return slices.Clone(d.edges)
}

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// CountKind returns the number of nodes of kind k.
func (d *Diagram) CountKind(k Kind) int {
	n := 0
	for _, node := range d.nodes {
		if node.Kind == k {
			n++
		}
	}
	return n
}

// Clear removes every node, edge and group.
func (d *Diagram) Clear() {
	d.nodes = nil
	d.edges = nil
	d.index = make(map[string]*Node)
	d.edgeIDs = make(map[string]struct{})
}

// =============================================================================
// Grouping
// =============================================================================

// MarkTreeRoot makes id the root of a grouping tree, creating its group if
// needed.
func (d *Diagram) MarkTreeRoot(id string) error {
	n, ok := d.index[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Group = ensureGroup(n.Group)
	n.Group.Root = true
	return nil
}

// SetGroupBehavior sets the placement behaviour of id's group.
func (d *Diagram) SetGroupBehavior(id string, b Behavior, side Side) error {
	n, ok := d.index[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Group = ensureGroup(n.Group)
	n.Group.Behavior = b
	n.Group.Side = side
	return nil
}

// AddToGroup appends childID to parentID's group.
// A node can belong to at most one group.
func (d *Diagram) AddToGroup(parentID, childID string) error {
	parent, ok := d.index[parentID]
	if !ok {
		return ErrUnknownNode
	}
	child, ok := d.index[childID]
	if !ok {
		return ErrUnknownNode
	}
	if child.Parent != "" && child.Parent != parentID {
		return ErrAlreadyGrouped
	}
	parent.Group = ensureGroup(parent.Group)
	if !slices.Contains(parent.Group.Children, childID) {
		parent.Group.Children = append(parent.Group.Children, childID)
	}
	child.Parent = parentID
	return nil
}

// Children returns the ordered child IDs of id's group.
func (d *Diagram) Children(id string) []string {
	n, ok := d.index[id]
	if !ok || n.Group == nil {
		return nil
	}
	return slices.Clone(n.Group.Children)
}

// TreeRootOf walks up from id to the nearest node marked as tree root.
func (d *Diagram) TreeRootOf(id string) (*Node, bool) {
	n, ok := d.index[id]
	for ok {
		if n.Group != nil && n.Group.Root {
			return n, true
		}
		if n.Parent == "" {
			return nil, false
		}
		n, ok = d.index[n.Parent]
	}
	return nil, false
}

func ensureGroup(g *CompoundGroup) *CompoundGroup {
	if g == nil {
		return &CompoundGroup{}
	}
	return g
}
