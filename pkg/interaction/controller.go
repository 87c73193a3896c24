package interaction

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/grouping"
	"github.com/matzehuels/issuegraph/pkg/observability"
	"github.com/matzehuels/issuegraph/pkg/positions"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
	"github.com/matzehuels/issuegraph/pkg/viewport"
)

// Options configures a [Controller]. Every field is optional.
type Options struct {
	// Project is the key drag-end saves are persisted under.
	Project string
	// Store persists the record after each drag end. Nil skips persistence.
	Store positions.Store

	Intents     Intents
	Resolver    DetailResolver
	ContextMenu ContextMenu

	// Handset routes every click like a shift-click.
	Handset bool

	Logger *log.Logger
}

// Outcome tells the widget how to continue after an event.
type Outcome struct {
	// PreventDefault cancels the widget's built-in handling.
	PreventDefault bool `json:"preventDefault"`
	// Edge is the updated dragged edge of an edge retarget.
	Edge *DraggedEdge `json:"edge,omitempty"`
	// Saved is true when a drag end was persisted.
	Saved bool `json:"saved,omitempty"`
}

// Controller handles the gestures of one project view.
// It is not safe for concurrent use.
type Controller struct {
	diagram  *diagram.Diagram
	record   *positions.Record
	viewport *viewport.Controller
	opts     Options
	logger   *log.Logger
}

// New creates a controller over the live diagram d, the record rec the
// builder also reads, and the view's viewport controller.
func New(d *diagram.Diagram, rec *positions.Record, vp *viewport.Controller, opts Options) *Controller {
	if opts.Intents == nil {
		opts.Intents = NopIntents{}
	}
	if opts.Resolver == nil {
		opts.Resolver = noDetails{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{diagram: d, record: rec, viewport: vp, opts: opts, logger: logger}
}

// Handle applies ev and returns what the widget should do.
func (c *Controller) Handle(ctx context.Context, ev Event) Outcome {
	observability.Interaction().OnEvent(ctx, string(ev.Type()), string(ev.EventSource()))
	switch e := ev.(type) {
	case NodeClick:
		return c.nodeClick(ctx, e)
	case NodeDragEnd:
		return c.nodeDragEnd(ctx, e)
	case ViewportChange:
		c.viewport.SetVisibleArea(e.Area)
		return Outcome{}
	case EdgeRetarget:
		return c.edgeRetarget(e)
	case EdgeAdd:
		return c.edgeAdd(ctx, e)
	case EdgeDrop:
		return c.edgeDrop(ctx, e)
	case EdgeRemove:
		return c.edgeRemove(ctx, e)
	}
	c.logger.Debug("ignoring unknown event", "type", ev.Type())
	return Outcome{}
}

// =============================================================================
// Drag end
// =============================================================================

func (c *Controller) nodeDragEnd(ctx context.Context, e NodeDragEnd) Outcome {
	if e.fromAPI() {
		return Outcome{}
	}
	node, ok := c.diagram.Node(e.NodeID)
	if !ok {
		c.logger.Debug("drag end on unknown node", "node", e.NodeID)
		return Outcome{}
	}

	switch node.Kind {
	case diagram.KindIssueGroupContainer:
		side := e.Side
		if !side.Valid() {
			owner, ok := c.diagram.Node(node.Parent)
			if !ok {
				return Outcome{}
			}
			side = grouping.NearestSide(owner.Position, e.Position)
		}
		node.Side = side
		if err := c.diagram.SetGroupBehavior(node.Parent, diagram.BehaviorOwnerPlacement, side); err != nil {
			c.logger.Debug("container without owner", "container", node.ID, "owner", node.Parent, "err", err)
		}
		c.record.SetSide(node.ID, side)
		grouping.Reflow(c.diagram, node.Parent)
	case diagram.KindComponent, diagram.KindInterface, diagram.KindIssueFolder:
		if !e.Position.IsFinite() {
			return Outcome{}
		}
		node.Position = e.Position
		c.record.SetPosition(node.ID, e.Position)
		if node.Kind.IsOwner() {
			grouping.Reflow(c.diagram, node.ID)
		}
	}

	out := Outcome{}
	if c.opts.Store != nil {
		if err := c.opts.Store.Save(ctx, c.opts.Project, c.record); err != nil {
			c.logger.Error("saving positions", "project", c.opts.Project, "err", err)
		} else {
			out.Saved = true
		}
	}
	c.viewport.DragEnded()
	return out
}

// =============================================================================
// Clicks
// =============================================================================

func (c *Controller) nodeClick(ctx context.Context, e NodeClick) Outcome {
	out := Outcome{PreventDefault: true}
	node, ok := c.diagram.Node(e.NodeID)
	if !ok {
		return out
	}
	c.viewport.NodeClicked()

	if e.Shift || e.Handset || c.opts.Handset {
		switch node.Kind {
		case diagram.KindComponent:
			c.opts.Intents.NavigateToComponent(ctx, node.ID)
			c.emitted(ctx, IntentNavigateToComponent, node.ID)
			return out
		case diagram.KindInterface:
			c.opts.Intents.NavigateToInterface(ctx, node.ID)
			c.emitted(ctx, IntentNavigateToInterface, node.ID)
			return out
		case diagram.KindIssueGroupContainer, diagram.KindIssueFolder:
		}
	} else if c.opts.ContextMenu != nil && c.opts.ContextMenu.Claim(ctx, node) {
		return out
	}

	c.folderClick(ctx, node)
	return out
}

// folderClick opens the issue behind a folder. Other node kinds reaching it
// are ignored.
func (c *Controller) folderClick(ctx context.Context, folder *diagram.Node) {
	switch folder.Kind {
	case diagram.KindIssueFolder:
	case diagram.KindComponent, diagram.KindInterface, diagram.KindIssueGroupContainer:
		return
	}
	root, ok := c.diagram.TreeRootOf(folder.ID)
	if !ok {
		c.logger.Debug("folder without tree root", "folder", folder.ID)
		return
	}

	if folder.IssueCount != 1 {
		switch root.Kind {
		case diagram.KindComponent:
			c.opts.Intents.NavigateToComponentIssues(ctx, root.ID)
			c.emitted(ctx, IntentNavigateToComponentIssues, root.ID)
		case diagram.KindInterface:
			c.opts.Intents.NavigateToInterfaceIssues(ctx, root.ID)
			c.emitted(ctx, IntentNavigateToInterfaceIssues, root.ID)
		case diagram.KindIssueGroupContainer, diagram.KindIssueFolder:
		}
		return
	}

	var issues []snapshot.Issue
	var err error
	switch root.Kind {
	case diagram.KindComponent:
		issues, err = c.opts.Resolver.ResolveComponentDetail(ctx, root.ID)
	case diagram.KindInterface:
		issues, err = c.opts.Resolver.ResolveInterfaceDetail(ctx, root.ID)
	case diagram.KindIssueGroupContainer, diagram.KindIssueFolder:
		return
	}
	if err != nil {
		c.logger.Warn("resolving issues", "root", root.ID, "err", err)
		return
	}
	id, ok := firstIssue(issues, folder.Category)
	if !ok {
		c.logger.Debug("no issue matches folder", "root", root.ID, "category", folder.Category)
		return
	}
	c.opts.Intents.NavigateToIssue(ctx, id)
	c.emitted(ctx, IntentNavigateToIssue, id)
}

func firstIssue(issues []snapshot.Issue, cat snapshot.IssueCategory) (string, bool) {
	for _, is := range issues {
		if is.Category == cat {
			return is.ID, true
		}
	}
	return "", false
}

// =============================================================================
// Edges
// =============================================================================

func (c *Controller) edgeRetarget(e EdgeRetarget) Outcome {
	edge := e.Edge
	src, ok := c.diagram.Node(e.SourceNodeID)
	if !ok || src.Kind != diagram.KindComponent {
		return Outcome{Edge: &edge}
	}

	if tgt, ok := c.diagram.Node(e.TargetNodeID); ok && tgt.Kind == diagram.KindInterface {
		edge.Kind = diagram.EdgeDraggedConsumer
		edge.Role = RoleConsumer
		edge.DragHandles = nil
		edge.MarkerEnd = &diagram.Marker{Template: diagram.MarkerInterfaceConnector}
		return Outcome{Edge: &edge}
	}

	zero := 0.0
	edge.Kind = diagram.EdgeProvision
	edge.Role = RoleNewInterface
	edge.DragHandles = []diagram.Point{}
	edge.MarkerEnd = &diagram.Marker{
		Template:         diagram.MarkerInterfaceConnectorInitial,
		AbsoluteRotation: &zero,
	}
	return Outcome{Edge: &edge}
}

func (c *Controller) edgeAdd(ctx context.Context, e EdgeAdd) Outcome {
	if e.fromAPI() || !e.Edge.Kind.IsConsumer() {
		return Outcome{}
	}
	if c.live(e.Edge.Source, e.Edge.Target) {
		c.opts.Intents.AddConsumedInterface(ctx, e.Edge.Source, e.Edge.Target)
		c.emitted(ctx, IntentAddConsumedInterface, e.Edge.ID)
	}
	return Outcome{PreventDefault: true}
}

func (c *Controller) edgeDrop(ctx context.Context, e EdgeDrop) Outcome {
	if e.fromAPI() || e.Edge.CreatedFrom != "" || e.Edge.Role != RoleNewInterface {
		return Outcome{}
	}
	src, ok := c.diagram.Node(e.Edge.Source)
	if !ok || src.Kind != diagram.KindComponent {
		return Outcome{}
	}
	c.opts.Intents.OpenInterfaceCreationDialog(ctx, src.ID, e.DropPosition)
	c.emitted(ctx, IntentOpenInterfaceCreationDialog, src.ID)
	return Outcome{}
}

func (c *Controller) edgeRemove(ctx context.Context, e EdgeRemove) Outcome {
	if e.fromAPI() || !e.Edge.Kind.IsConsumer() {
		return Outcome{}
	}
	if c.live(e.Edge.Source, e.Edge.Target) {
		c.opts.Intents.RemoveConsumedInterface(ctx, e.Edge.Source, e.Edge.Target)
		c.emitted(ctx, IntentRemoveConsumedInterface, e.Edge.ID)
	}
	return Outcome{PreventDefault: true}
}

func (c *Controller) live(ids ...string) bool {
	for _, id := range ids {
		if _, ok := c.diagram.Node(id); !ok {
			return false
		}
	}
	return true
}

func (c *Controller) emitted(ctx context.Context, name IntentName, subject string) {
	observability.Interaction().OnIntent(ctx, string(name))
	c.logger.Debug("intent", "name", name, "subject", subject)
}
