package builder

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/grouping"
	"github.com/matzehuels/issuegraph/pkg/positions"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
	"github.com/matzehuels/issuegraph/pkg/viewport"
)

// IdealGap is the horizontal gap between the previous bounding box and a
// newly placed node.
const IdealGap = 60.0

// Builder reconstructs diagrams from snapshots.
type Builder struct {
	Grouping *grouping.Engine
	Logger   *log.Logger
}

// New creates a builder. A nil logger uses log.Default().
func New(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{Grouping: grouping.New(logger), Logger: logger}
}

// Result summarizes one build.
type Result struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
	// Skipped counts edges dropped because an endpoint was missing.
	Skipped int `json:"skipped"`
	// Placed counts owners that got an ideal position this build.
	Placed int `json:"placed"`

	PriorBox    diagram.Rect `json:"priorBox"`
	HadPriorBox bool         `json:"hadPriorBox"`
}

// IdealPosition returns where a node without a saved position goes: right of
// the prior bounding box and vertically centred on it, or the origin when
// there was nothing before.
func IdealPosition(prior diagram.Rect, ok bool) diagram.Point {
	if !ok {
		return diagram.Point{}
	}
	return diagram.Point{X: prior.X + prior.Width + IdealGap, Y: prior.Y + prior.Height/2}
}

// Build clears d and fills it from snap. New ideal positions are written to
// rec. Build is not reentrant; callers serialize it with gesture handling.
func (b *Builder) Build(d *diagram.Diagram, snap *snapshot.Snapshot, rec *positions.Record) Result {
	var res Result
	res.PriorBox, res.HadPriorBox = viewport.BoundingBox(d)
	ideal := IdealPosition(res.PriorBox, res.HadPriorBox)

	d.Clear()

	var owners []*diagram.Node
	place := func(n diagram.Node) {
		if p, ok := rec.Position(n.ID); ok {
			n.Position = p
		} else {
			n.Position = ideal
			rec.SetPosition(n.ID, ideal)
			res.Placed++
		}
		node, err := d.AddNode(n)
		if err != nil {
			b.Logger.Warn("skipping node", "id", n.ID, "kind", n.Kind, "err", err)
			return
		}
		owners = append(owners, node)
	}
	for _, id := range snap.ComponentIDs() {
		c := snap.Components[id]
		place(diagram.Node{ID: id, Kind: diagram.KindComponent, Label: c.Name})
	}
	for _, id := range snap.InterfaceIDs() {
		i := snap.Interfaces[id]
		place(diagram.Node{ID: id, Kind: diagram.KindInterface, Label: i.Name, OfferedByID: i.OfferedByID})
	}

	for _, owner := range owners {
		if err := b.Grouping.Attach(d, owner, snap.Counts(owner.ID), rec); err != nil {
			b.Logger.Warn("skipping issue folders", "owner", owner.ID, "err", err)
		}
	}
	for _, owner := range owners {
		_, skipped := b.Grouping.Relate(d, owner.ID, snap.Related)
		res.Skipped += skipped
	}

	for _, id := range snap.InterfaceIDs() {
		iface := snap.Interfaces[id]
		b.addEdge(d, diagram.ProvisionEdge(iface.OfferedByID, id), &res)
		for _, consumer := range iface.Consumers() {
			b.addEdge(d, diagram.ConsumptionEdge(consumer, id), &res)
		}
	}

	res.Nodes = d.NodeCount()
	res.Edges = d.EdgeCount()
	b.Logger.Debug("built diagram", "nodes", res.Nodes, "edges", res.Edges, "placed", res.Placed, "skipped", res.Skipped)
	return res
}

func (b *Builder) addEdge(d *diagram.Diagram, e diagram.Edge, res *Result) {
	if err := d.AddEdge(e); err != nil {
		b.Logger.Debug("skipping edge", "id", e.ID, "err", err)
		res.Skipped++
	}
}
