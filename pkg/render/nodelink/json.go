package nodelink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/issuegraph/pkg/diagram"
)

// Elements is the Cytoscape.js element list.
type Elements struct {
	Nodes []Element `json:"nodes"`
	Edges []Element `json:"edges"`
}

// Element wraps node or edge data the way Cytoscape.js expects it.
type Element struct {
	Data     ElementData    `json:"data"`
	Position *diagram.Point `json:"position,omitempty"`
	Classes  string         `json:"classes,omitempty"`
}

// ElementData holds the fields of one node or edge.
type ElementData struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Parent string `json:"parent,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	Kind   string `json:"kind"`

	Category   string `json:"category,omitempty"`
	IssueCount int    `json:"issueCount,omitempty"`
	Side       string `json:"side,omitempty"`
}

// ToElements converts nodes and edges to Cytoscape.js elements. Containers
// become compound parents of their folders.
func ToElements(nodes []diagram.Node, edges []diagram.Edge) Elements {
	els := Elements{
		Nodes: make([]Element, 0, len(nodes)),
		Edges: make([]Element, 0, len(edges)),
	}
	for _, n := range nodes {
		pos := n.Position
		el := Element{
			Data: ElementData{
				ID:         n.ID,
				Label:      n.DisplayLabel(),
				Parent:     n.Parent,
				Kind:       n.Kind.String(),
				Category:   string(n.Category),
				IssueCount: n.IssueCount,
				Side:       string(n.Side),
			},
			Classes: n.Kind.String(),
		}
		// Compound parents take their position from their children.
		if n.Kind != diagram.KindIssueGroupContainer {
			el.Position = &pos
		}
		els.Nodes = append(els.Nodes, el)
	}
	for _, e := range edges {
		classes := e.Kind.String()
		if e.Kind.Dashed() {
			classes += " dashed"
		}
		els.Edges = append(els.Edges, Element{
			Data: ElementData{
				ID:     e.ID,
				Source: e.Source,
				Target: e.Target,
				Kind:   e.Kind.String(),
			},
			Classes: classes,
		})
	}
	return els
}

// ToJSON marshals [ToElements] output.
func ToJSON(nodes []diagram.Node, edges []diagram.Edge) ([]byte, error) {
	data, err := json.MarshalIndent(ToElements(nodes, edges), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal elements: %w", err)
	}
	return data, nil
}
