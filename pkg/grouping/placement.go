package grouping

import (
	"math"

	"github.com/matzehuels/issuegraph/pkg/diagram"
)

// DefaultSide is used for containers without a saved side.
const DefaultSide = diagram.SideNorth

// Folder geometry inside a container.
const (
	FolderWidth  = 28.0
	FolderHeight = 24.0
	FolderGap    = 4.0

	// containerGap separates the owner's edge from the nearest folder edge.
	containerGap = 8.0
)

// ownerSize is the footprint the container is placed around.
func ownerSize(k diagram.Kind) diagram.Size {
	switch k {
	case diagram.KindComponent:
		return diagram.Size{Width: 100, Height: 60}
	case diagram.KindInterface:
		return diagram.Size{Width: 14, Height: 14}
	case diagram.KindIssueGroupContainer, diagram.KindIssueFolder:
		return diagram.Size{}
	}
	return diagram.Size{}
}

// containerSize returns the extent of n folders laid out for side.
func containerSize(n int, side diagram.Side) diagram.Size {
	if n == 0 {
		return diagram.Size{}
	}
	long := float64(n)*FolderWidth + float64(n-1)*FolderGap
	if side == diagram.SideEast || side == diagram.SideWest {
		return diagram.Size{Width: FolderWidth, Height: float64(n)*FolderHeight + float64(n-1)*FolderGap}
	}
	return diagram.Size{Width: long, Height: FolderHeight}
}

// PlaceContainer returns the centre of a container holding folderCount
// folders on the given side of owner.
func PlaceContainer(owner *diagram.Node, side diagram.Side, folderCount int) diagram.Point {
	o := ownerSize(owner.Kind)
	c := containerSize(folderCount, side)
	p := owner.Position
	switch side {
	case diagram.SideSouth:
		return diagram.Point{X: p.X, Y: p.Y + o.Height/2 + containerGap + c.Height/2}
	case diagram.SideEast:
		return diagram.Point{X: p.X + o.Width/2 + containerGap + c.Width/2, Y: p.Y}
	case diagram.SideWest:
		return diagram.Point{X: p.X - o.Width/2 - containerGap - c.Width/2, Y: p.Y}
	default:
		return diagram.Point{X: p.X, Y: p.Y - o.Height/2 - containerGap - c.Height/2}
	}
}

// ArrangeFolders positions folders in order inside a container centred on
// center. North and south containers stack folders in a row, east and west
// containers in a column.
func ArrangeFolders(center diagram.Point, side diagram.Side, folders []*diagram.Node) {
	size := containerSize(len(folders), side)
	vertical := side == diagram.SideEast || side == diagram.SideWest
	for i, f := range folders {
		if vertical {
			top := center.Y - size.Height/2
			f.Position = diagram.Point{X: center.X, Y: top + FolderHeight/2 + float64(i)*(FolderHeight+FolderGap)}
			continue
		}
		left := center.X - size.Width/2
		f.Position = diagram.Point{X: left + FolderWidth/2 + float64(i)*(FolderWidth+FolderGap), Y: center.Y}
	}
}

// NearestSide returns the compass side of owner that p lies on, by the
// dominant axis of the offset.
func NearestSide(owner, p diagram.Point) diagram.Side {
	d := p.Sub(owner)
	if math.Abs(d.X) > math.Abs(d.Y) {
		if d.X > 0 {
			return diagram.SideEast
		}
		return diagram.SideWest
	}
	if d.Y > 0 {
		return diagram.SideSouth
	}
	return diagram.SideNorth
}
