package interaction

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/builder"
	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/interaction/interactiontest"
	"github.com/matzehuels/issuegraph/pkg/positions"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
	"github.com/matzehuels/issuegraph/pkg/viewport"
)

type fixture struct {
	diagram  *diagram.Diagram
	record   *positions.Record
	viewport *viewport.Controller
	store    *positions.MemoryStore
	intents  *Recorder
	resolver *interactiontest.Resolver
	ctrl     *Controller
}

// newFixture builds a diagram with component "api" (1 bug, 3 feature
// requests), interface "rest" (1 bug) offered by api and consumed by "web".
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	s := snapshot.New()
	s.Components["api"] = snapshot.Component{ID: "api"}
	s.Components["web"] = snapshot.Component{ID: "web"}
	s.Interfaces["rest"] = snapshot.Interface{ID: "rest", OfferedByID: "api", ConsumedBy: map[string]struct{}{"web": {}}}
	s.Locations["api"] = snapshot.IssueCounts{snapshot.CategoryBug: 1, snapshot.CategoryFeatureRequest: 3}
	s.Locations["rest"] = snapshot.IssueCounts{snapshot.CategoryBug: 1, snapshot.CategoryUnclassified: 2}

	f := &fixture{
		diagram:  diagram.New(),
		record:   positions.New(),
		viewport: viewport.NewController(),
		store:    positions.NewMemoryStore(nil),
		intents:  NewRecorder(nil),
		resolver: &interactiontest.Resolver{
			Components: map[string][]snapshot.Issue{
				"api": {
					{ID: "I-7", Category: snapshot.CategoryFeatureRequest},
					{ID: "I-9", Category: snapshot.CategoryBug},
					{ID: "I-10", Category: snapshot.CategoryBug},
				},
			},
			Interfaces: map[string][]snapshot.Issue{
				"rest": {{ID: "I-3", Category: snapshot.CategoryBug}},
			},
		},
	}
	builder.New(nil).Build(f.diagram, s, f.record)

	opts.Project = "demo"
	opts.Store = f.store
	opts.Intents = f.intents
	if opts.Resolver == nil {
		opts.Resolver = f.resolver
	}
	f.ctrl = New(f.diagram, f.record, f.viewport, opts)
	return f
}

func user() Meta { return Meta{Source: SourceUser} }
func api() Meta  { return Meta{Source: SourceAPI} }

func TestFolderClickSingleIssue(t *testing.T) {
	tests := []struct {
		name   string
		folder string
		want   string
	}{
		{"component root", diagram.FolderID("api", snapshot.CategoryBug), "I-9"},
		{"interface root", diagram.FolderID("rest", snapshot.CategoryBug), "I-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			out := f.ctrl.Handle(context.Background(), NodeClick{Meta: user(), NodeID: tt.folder})
			if !out.PreventDefault {
				t.Error("click must prevent default selection")
			}
			got := f.intents.Intents()
			if len(got) != 1 || got[0].Name != IntentNavigateToIssue || got[0].NodeID != tt.want {
				t.Errorf("intents = %+v, want one navigateToIssue(%s)", got, tt.want)
			}
		})
	}
}

func TestFolderClickManyIssues(t *testing.T) {
	tests := []struct {
		folder   string
		wantName IntentName
		wantRoot string
	}{
		{diagram.FolderID("api", snapshot.CategoryFeatureRequest), IntentNavigateToComponentIssues, "api"},
		{diagram.FolderID("rest", snapshot.CategoryUnclassified), IntentNavigateToInterfaceIssues, "rest"},
	}
	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.ctrl.Handle(context.Background(), NodeClick{Meta: user(), NodeID: tt.folder})
			got := f.intents.Intents()
			if len(got) != 1 || got[0].Name != tt.wantName || got[0].NodeID != tt.wantRoot {
				t.Errorf("intents = %+v", got)
			}
			if n := f.intents.Count(IntentNavigateToIssue); n != 0 {
				t.Errorf("navigateToIssue emitted %d times", n)
			}
			if calls := f.resolver.Calls(); len(calls) != 0 {
				t.Errorf("aggregate click should not resolve details: %v", calls)
			}
		})
	}
}

func TestFolderClickUnresolved(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		f := newFixture(t, Options{Resolver: &interactiontest.Resolver{}})
		f.ctrl.Handle(context.Background(), NodeClick{Meta: user(), NodeID: diagram.FolderID("api", snapshot.CategoryBug)})
		if got := f.intents.Intents(); len(got) != 0 {
			t.Errorf("intents = %+v, want none", got)
		}
	})
	t.Run("resolver error", func(t *testing.T) {
		f := newFixture(t, Options{Resolver: &interactiontest.Resolver{Err: errors.New("offline")}})
		f.ctrl.Handle(context.Background(), NodeClick{Meta: user(), NodeID: diagram.FolderID("api", snapshot.CategoryBug)})
		if got := f.intents.Intents(); len(got) != 0 {
			t.Errorf("intents = %+v, want none", got)
		}
	})
}

func TestNodeClickRouting(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		click   NodeClick
		want    IntentName
		wantNum int
	}{
		{"shift component", Options{}, NodeClick{Meta: user(), NodeID: "api", Shift: true}, IntentNavigateToComponent, 1},
		{"shift interface", Options{}, NodeClick{Meta: user(), NodeID: "rest", Shift: true}, IntentNavigateToInterface, 1},
		{"handset client", Options{Handset: true}, NodeClick{Meta: user(), NodeID: "api"}, IntentNavigateToComponent, 1},
		{"handset event", Options{}, NodeClick{Meta: user(), NodeID: "rest", Handset: true}, IntentNavigateToInterface, 1},
		{"plain component falls through", Options{}, NodeClick{Meta: user(), NodeID: "api"}, "", 0},
		{"container falls through", Options{}, NodeClick{Meta: user(), NodeID: diagram.ContainerID("api"), Shift: true}, "", 0},
		{"unknown node", Options{}, NodeClick{Meta: user(), NodeID: "ghost", Shift: true}, "", 0},
		{"shift folder uses folder path", Options{}, NodeClick{Meta: user(), NodeID: "api__BUG", Shift: true}, IntentNavigateToIssue, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts)
			out := f.ctrl.Handle(context.Background(), tt.click)
			if !out.PreventDefault {
				t.Error("click must prevent default selection")
			}
			got := f.intents.Intents()
			if len(got) != tt.wantNum {
				t.Fatalf("intents = %+v, want %d", got, tt.wantNum)
			}
			if tt.wantNum > 0 && got[0].Name != tt.want {
				t.Errorf("intent = %s, want %s", got[0].Name, tt.want)
			}
		})
	}
}

func TestContextMenuClaimsPlainClick(t *testing.T) {
	menu := &interactiontest.ContextMenu{Claims: map[string]bool{"api__BUG": true}}
	f := newFixture(t, Options{ContextMenu: menu})

	f.ctrl.Handle(context.Background(), NodeClick{Meta: user(), NodeID: "api__BUG"})
	if got := f.intents.Intents(); len(got) != 0 {
		t.Errorf("claimed click emitted %+v", got)
	}

	// Shift clicks bypass the menu.
	f.ctrl.Handle(context.Background(), NodeClick{Meta: user(), NodeID: "api", Shift: true})
	if len(menu.Seen) != 1 {
		t.Errorf("menu saw %v", menu.Seen)
	}
}

func TestDragEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	out := f.ctrl.Handle(ctx, NodeDragEnd{Meta: user(), NodeID: "api", Position: diagram.Point{X: 400, Y: 120}})
	if !out.Saved {
		t.Fatal("drag end was not persisted")
	}
	container := diagram.ContainerID("api")
	f.ctrl.Handle(ctx, NodeDragEnd{Meta: user(), NodeID: container, Side: diagram.SideWest})

	saved, err := f.store.Load(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if p := saved.Nodes["api"]; p != (diagram.Point{X: 400, Y: 120}) {
		t.Errorf("saved api position = %v", p)
	}
	if s := saved.IssueGroups[container]; s != diagram.SideWest {
		t.Errorf("saved container side = %v", s)
	}
	if _, ok := saved.Nodes[container]; ok {
		t.Error("container position should not be saved")
	}
	if f.viewport.State() != viewport.Stable {
		t.Errorf("viewport state = %v, want stable", f.viewport.State())
	}
}

func TestDragEndDerivesSide(t *testing.T) {
	f := newFixture(t, Options{})
	owner, _ := f.diagram.Node("api")
	below := owner.Position.Add(diagram.Point{X: 5, Y: 80})

	f.ctrl.Handle(context.Background(), NodeDragEnd{Meta: user(), NodeID: diagram.ContainerID("api"), Position: below})
	if s, _ := f.record.Side(diagram.ContainerID("api")); s != diagram.SideSouth {
		t.Errorf("side = %v, want south", s)
	}
}

func TestDragEndMovesFolders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	folder, _ := f.diagram.Node(diagram.FolderID("api", snapshot.CategoryBug))
	owner, _ := f.diagram.Node("api")
	offset := folder.Position.Sub(owner.Position)

	f.ctrl.Handle(ctx, NodeDragEnd{Meta: user(), NodeID: "api", Position: diagram.Point{X: 400, Y: 120}})
	if got := folder.Position.Sub(owner.Position); got != offset {
		t.Errorf("folder offset after owner drag = %v, want %v", got, offset)
	}

	f.ctrl.Handle(ctx, NodeDragEnd{Meta: user(), NodeID: diagram.ContainerID("api"), Side: diagram.SideSouth})
	if folder.Position.Y <= owner.Position.Y {
		t.Errorf("folder at %v should be below owner at %v", folder.Position, owner.Position)
	}
}

func TestDragEndOrphanContainer(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	d := diagram.New()
	if _, err := d.AddNode(diagram.Node{ID: "lost__group", Kind: diagram.KindIssueGroupContainer, Parent: "lost"}); err != nil {
		t.Fatal(err)
	}
	rec := positions.New()
	ctrl := New(d, rec, viewport.NewController(), Options{Logger: logger})

	ctrl.Handle(context.Background(), NodeDragEnd{Meta: user(), NodeID: "lost__group", Side: diagram.SideEast})
	if s, _ := rec.Side("lost__group"); s != diagram.SideEast {
		t.Errorf("side = %v, want east", s)
	}
	if !strings.Contains(logs.String(), "container without owner") {
		t.Errorf("missing owner was not logged:\n%s", logs.String())
	}
}

func TestDragEndIgnored(t *testing.T) {
	tests := []struct {
		name string
		ev   NodeDragEnd
	}{
		{"api source", NodeDragEnd{Meta: api(), NodeID: "api", Position: diagram.Point{X: 1, Y: 1}}},
		{"unknown node", NodeDragEnd{Meta: user(), NodeID: "ghost", Position: diagram.Point{X: 1, Y: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			before, _ := f.record.Position("api")
			if out := f.ctrl.Handle(context.Background(), tt.ev); out.Saved {
				t.Error("ignored drag end was saved")
			}
			if after, _ := f.record.Position("api"); after != before {
				t.Errorf("position changed to %v", after)
			}
			if _, ok := f.record.Position("ghost"); ok {
				t.Error("unknown node was recorded")
			}
		})
	}
}

func TestEdgeRetarget(t *testing.T) {
	f := newFixture(t, Options{})
	start := DraggedEdge{Edge: diagram.Edge{ID: "drag-1", Source: "web"}}

	out := f.ctrl.Handle(context.Background(), EdgeRetarget{Meta: user(), Edge: start, SourceNodeID: "web", TargetNodeID: "rest"})
	e := out.Edge
	if e == nil || e.Role != RoleConsumer || e.Kind != diagram.EdgeDraggedConsumer {
		t.Fatalf("retarget to interface = %+v", e)
	}
	if e.DragHandles != nil {
		t.Error("consumer edge should use default drag handles")
	}
	if e.MarkerEnd == nil || e.MarkerEnd.Template != diagram.MarkerInterfaceConnector || e.MarkerEnd.RelativeRotation != 0 {
		t.Errorf("marker = %+v", e.MarkerEnd)
	}

	out = f.ctrl.Handle(context.Background(), EdgeRetarget{Meta: user(), Edge: *e, SourceNodeID: "web"})
	e = out.Edge
	if e.Role != RoleNewInterface {
		t.Fatalf("retarget to canvas = %+v", e)
	}
	if e.DragHandles == nil || len(e.DragHandles) != 0 {
		t.Errorf("drag handles = %#v, want empty", e.DragHandles)
	}
	m := e.MarkerEnd
	if m == nil || m.Template != diagram.MarkerInterfaceConnectorInitial || m.AbsoluteRotation == nil || *m.AbsoluteRotation != 0 {
		t.Errorf("marker = %+v", m)
	}

	// Edges dragged out of an interface are left alone.
	out = f.ctrl.Handle(context.Background(), EdgeRetarget{Meta: user(), Edge: start, SourceNodeID: "rest", TargetNodeID: "rest"})
	if out.Edge.Role != RoleNone {
		t.Errorf("non-component source changed edge: %+v", out.Edge)
	}
}

func TestEdgeAddAndRemove(t *testing.T) {
	consumer := diagram.Edge{ID: "e1", Kind: diagram.EdgeDraggedConsumer, Source: "web", Target: "rest"}
	tests := []struct {
		name        string
		ev          Event
		wantPrevent bool
		want        IntentName
	}{
		{"add consumer", EdgeAdd{Meta: user(), Edge: consumer}, true, IntentAddConsumedInterface},
		{"add api", EdgeAdd{Meta: api(), Edge: consumer}, false, ""},
		{"add provision", EdgeAdd{Meta: user(), Edge: diagram.ProvisionEdge("api", "rest")}, false, ""},
		{"add dangling", EdgeAdd{Meta: user(), Edge: diagram.ConsumptionEdge("ghost", "rest")}, true, ""},
		{"remove consumer", EdgeRemove{Meta: user(), Edge: diagram.ConsumptionEdge("web", "rest")}, true, IntentRemoveConsumedInterface},
		{"remove api", EdgeRemove{Meta: api(), Edge: diagram.ConsumptionEdge("web", "rest")}, false, ""},
		{"remove relation", EdgeRemove{Meta: user(), Edge: diagram.RelationEdge("api__BUG", "rest__BUG")}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			out := f.ctrl.Handle(context.Background(), tt.ev)
			if out.PreventDefault != tt.wantPrevent {
				t.Errorf("PreventDefault = %v, want %v", out.PreventDefault, tt.wantPrevent)
			}
			got := f.intents.Intents()
			if tt.want == "" {
				if len(got) != 0 {
					t.Errorf("intents = %+v, want none", got)
				}
				return
			}
			if len(got) != 1 || got[0].Name != tt.want || got[0].SourceID != "web" || got[0].TargetID != "rest" {
				t.Errorf("intents = %+v, want %s(web, rest)", got, tt.want)
			}
		})
	}
}

func TestEdgeDrop(t *testing.T) {
	fresh := DraggedEdge{Edge: diagram.Edge{Source: "api"}, Role: RoleNewInterface}
	derived := fresh
	derived.CreatedFrom = "provision:api->rest"
	consumer := DraggedEdge{Edge: diagram.Edge{Source: "api"}, Role: RoleConsumer}

	tests := []struct {
		name string
		ev   EdgeDrop
		want int
	}{
		{"fresh", EdgeDrop{Meta: user(), Edge: fresh, DropPosition: diagram.Point{X: 10, Y: 20}}, 1},
		{"derived", EdgeDrop{Meta: user(), Edge: derived}, 0},
		{"consumer", EdgeDrop{Meta: user(), Edge: consumer}, 0},
		{"api", EdgeDrop{Meta: api(), Edge: fresh}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.ctrl.Handle(context.Background(), tt.ev)
			got := f.intents.Intents()
			if len(got) != tt.want {
				t.Fatalf("intents = %+v", got)
			}
			if tt.want == 1 {
				if got[0].Name != IntentOpenInterfaceCreationDialog || got[0].SourceID != "api" || *got[0].Position != tt.ev.DropPosition {
					t.Errorf("intent = %+v", got[0])
				}
			}
		})
	}
}

func TestViewportChange(t *testing.T) {
	f := newFixture(t, Options{})
	area := diagram.Rect{X: 1, Y: 2, Width: 300, Height: 200}
	f.ctrl.Handle(context.Background(), ViewportChange{Meta: api(), Area: area})
	if got, ok := f.viewport.VisibleArea(); !ok || got != area {
		t.Errorf("VisibleArea() = %+v, %v", got, ok)
	}
}

func TestClickSuppressesPendingFit(t *testing.T) {
	f := newFixture(t, Options{})
	f.ctrl.Handle(context.Background(), NodeClick{Meta: user(), NodeID: "api__FEATURE_REQUEST"})
	if f.viewport.State() != viewport.SuppressedAfterDetailClose {
		t.Errorf("state = %v", f.viewport.State())
	}
}
