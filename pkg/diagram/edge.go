package diagram

import (
	"fmt"
	"slices"
)

// EdgeKind is the closed set of edge variants.
type EdgeKind int

const (
	// EdgeProvision links an offering component to its interface.
	EdgeProvision EdgeKind = iota
	// EdgeConsumption links a consuming component to an interface.
	EdgeConsumption
	// EdgeDraggedConsumer is a consumer edge whose drag is still in progress.
	EdgeDraggedConsumer
	// EdgeRelation is a dashed edge between two related issue folders.
	EdgeRelation
)

var edgeKindNames = [...]string{
	EdgeProvision:       "provision",
	EdgeConsumption:     "consumption",
	EdgeDraggedConsumer: "dragged-consumer",
	EdgeRelation:        "relation",
}

func (k EdgeKind) String() string {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
	return edgeKindNames[k]
}

// MarshalText encodes the edge kind by name.
func (k EdgeKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return nil, fmt.Errorf("invalid edge kind %d", int(k))
	}
	return []byte(edgeKindNames[k]), nil
}

// UnmarshalText decodes an edge kind name.
func (k *EdgeKind) UnmarshalText(b []byte) error {
	for i, name := range edgeKindNames {
		if name == string(b) {
			*k = EdgeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown edge kind %q", string(b))
}

// IsConsumer reports whether the edge expresses "component consumes
// interface", whether drawn from data or still being dragged.
func (k EdgeKind) IsConsumer() bool {
	switch k {
	case EdgeConsumption, EdgeDraggedConsumer:
		return true
	case EdgeProvision, EdgeRelation:
		return false
	}
	return false
}

// Dashed reports whether the edge is drawn dashed.
func (k EdgeKind) Dashed() bool {
	return k == EdgeRelation
}

// Marker templates used at edge ends.
const (
	MarkerInterfaceConnector        = "interface-connector"
	MarkerInterfaceConnectorInitial = "interface-connector-initial"
)

// Marker decorates the end of an edge.
type Marker struct {
	Template         string   `json:"template"`
	RelativeRotation float64  `json:"relativeRotation"`
	AbsoluteRotation *float64 `json:"absoluteRotation,omitempty"`
}

// Edge is a directed diagram edge.
type Edge struct {
	ID        string   `json:"id"`
	Kind      EdgeKind `json:"kind"`
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	MarkerEnd *Marker  `json:"markerEnd,omitempty"`

	// DragHandles are the bend points of an edge being dragged. Nil means
	// the widget's default handles; an empty slice means no handles at all.
	DragHandles []Point `json:"dragHandles"`
}

// Clone returns a copy of e that shares no memory with it. A nil DragHandles
// stays nil.
func (e Edge) Clone() Edge {
	e.DragHandles = slices.Clone(e.DragHandles)
	if e.MarkerEnd != nil {
		m := *e.MarkerEnd
		if m.AbsoluteRotation != nil {
			r := *m.AbsoluteRotation
			m.AbsoluteRotation = &r
		}
		e.MarkerEnd = &m
	}
	return e
}

// ProvisionEdge returns the edge from an offering component to its interface.
func ProvisionEdge(componentID, interfaceID string) Edge {
	return Edge{
		ID:     "provision:" + componentID + "->" + interfaceID,
		Kind:   EdgeProvision,
		Source: componentID,
		Target: interfaceID,
	}
}

// ConsumptionEdge returns the edge from a consuming component to an interface.
func ConsumptionEdge(componentID, interfaceID string) Edge {
	return Edge{
		ID:        "consumption:" + componentID + "->" + interfaceID,
		Kind:      EdgeConsumption,
		Source:    componentID,
		Target:    interfaceID,
		MarkerEnd: &Marker{Template: MarkerInterfaceConnector},
	}
}

// RelationEdge returns the dashed edge between two folders.
func RelationEdge(fromFolderID, toFolderID string) Edge {
	return Edge{
		ID:     "relation:" + fromFolderID + "->" + toFolderID,
		Kind:   EdgeRelation,
		Source: fromFolderID,
		Target: toFolderID,
	}
}
