package viewport

import (
	"math"

	"github.com/matzehuels/issuegraph/pkg/diagram"
)

// Node footprints used to measure the diagram.
var (
	ComponentSize = diagram.Size{Width: 100, Height: 60}
	InterfaceSize = diagram.Size{Width: 14, Height: 14}
	ContainerSize = diagram.Size{Width: 40, Height: 30}
)

// Footprint returns the measured size of n. Folders and empty containers
// are not measured.
func Footprint(n *diagram.Node) (diagram.Size, bool) {
	switch n.Kind {
	case diagram.KindComponent:
		return ComponentSize, true
	case diagram.KindInterface:
		return InterfaceSize, true
	case diagram.KindIssueGroupContainer:
		if !n.HasChildren() {
			return diagram.Size{}, false
		}
		return ContainerSize, true
	case diagram.KindIssueFolder:
		return diagram.Size{}, false
	}
	return diagram.Size{}, false
}

// BoundingBox returns the box enclosing every measured node of d, with node
// positions taken as centres. ok is false when no node is measured.
func BoundingBox(d *diagram.Diagram) (box diagram.Rect, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range d.Nodes() {
		size, measured := Footprint(n)
		if !measured {
			continue
		}
		x := n.Position.X - size.Width/2
		y := n.Position.Y - size.Height/2
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x+size.Width)
		maxY = max(maxY, y+size.Height)
		ok = true
	}
	if !ok {
		return diagram.Rect{}, false
	}
	return diagram.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
