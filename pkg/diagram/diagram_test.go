package diagram

import (
	"errors"
	"testing"

	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		wantErr error
	}{
		{"single", []Node{{ID: "api"}}, nil},
		{"empty id", []Node{{ID: ""}}, ErrInvalidNodeID},
		{"duplicate", []Node{{ID: "api"}, {ID: "api"}}, ErrDuplicateNodeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			var err error
			for _, n := range tt.nodes {
				if _, err = d.AddNode(n); err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	d := New()
	mustAdd(t, d, Node{ID: "api", Kind: KindComponent})
	mustAdd(t, d, Node{ID: "rest", Kind: KindInterface})

	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"provision", ProvisionEdge("api", "rest"), nil},
		{"duplicate", ProvisionEdge("api", "rest"), ErrDuplicateEdgeID},
		{"unknown source", ConsumptionEdge("ghost", "rest"), ErrUnknownSourceNode},
		{"unknown target", ConsumptionEdge("api", "ghost"), ErrUnknownTargetNode},
		{"generated id", Edge{Kind: EdgeConsumption, Source: "api", Target: "rest"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.AddEdge(tt.edge); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if got := d.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount() = %d, want 2", got)
	}

	d.RemoveEdge("provision:api->rest")
	if got := d.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount() after remove = %d, want 1", got)
	}
}

func TestClear(t *testing.T) {
	d := New()
	mustAdd(t, d, Node{ID: "api"})
	mustAdd(t, d, Node{ID: "rest"})
	if err := d.AddEdge(ProvisionEdge("api", "rest")); err != nil {
		t.Fatal(err)
	}
	d.Clear()
	if d.NodeCount() != 0 || d.EdgeCount() != 0 {
		t.Fatalf("after Clear: %d nodes, %d edges", d.NodeCount(), d.EdgeCount())
	}
	if _, ok := d.Node("api"); ok {
		t.Error("Node(api) still resolvable after Clear")
	}
	// IDs are free again.
	mustAdd(t, d, Node{ID: "api"})
}

func TestGroupingTree(t *testing.T) {
	d := New()
	owner := "api"
	container := ContainerID(owner)
	folder := FolderID(owner, snapshot.CategoryBug)
	mustAdd(t, d, Node{ID: owner, Kind: KindComponent})
	mustAdd(t, d, Node{ID: container, Kind: KindIssueGroupContainer})
	mustAdd(t, d, Node{ID: folder, Kind: KindIssueFolder})

	if err := d.MarkTreeRoot(owner); err != nil {
		t.Fatal(err)
	}
	if err := d.AddToGroup(owner, container); err != nil {
		t.Fatal(err)
	}
	if err := d.AddToGroup(container, folder); err != nil {
		t.Fatal(err)
	}
	// Re-adding is a no-op.
	if err := d.AddToGroup(container, folder); err != nil {
		t.Fatal(err)
	}

	root, ok := d.TreeRootOf(folder)
	if !ok || root.ID != owner {
		t.Fatalf("TreeRootOf(%s) = %v, %v, want %s", folder, root, ok, owner)
	}
	if got := d.Children(container); len(got) != 1 || got[0] != folder {
		t.Errorf("Children(container) = %v", got)
	}

	mustAdd(t, d, Node{ID: "other"})
	if err := d.AddToGroup("other", folder); !errors.Is(err, ErrAlreadyGrouped) {
		t.Errorf("AddToGroup to second parent error = %v, want ErrAlreadyGrouped", err)
	}
	if err := d.MarkTreeRoot("ghost"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("MarkTreeRoot(ghost) error = %v", err)
	}
	if _, ok := d.TreeRootOf("other"); ok {
		t.Error("ungrouped node should have no tree root")
	}
}

func TestDerivedIDs(t *testing.T) {
	if got := ContainerID("api"); got != "api__issue-group-container" {
		t.Errorf("ContainerID = %q", got)
	}
	if got := FolderID("api", snapshot.CategoryFeatureRequest); got != "api__FEATURE_REQUEST" {
		t.Errorf("FolderID = %q", got)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindComponent, KindInterface, KindIssueGroupContainer, KindIssueFolder} {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Kind
		if err := got.UnmarshalText(b); err != nil || got != k {
			t.Errorf("round trip %v = %v, %v", k, got, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("folder")); err == nil {
		t.Error("UnmarshalText(folder) should fail")
	}
}

func TestEdgeKindPredicates(t *testing.T) {
	tests := []struct {
		kind     EdgeKind
		consumer bool
		dashed   bool
	}{
		{EdgeProvision, false, false},
		{EdgeConsumption, true, false},
		{EdgeDraggedConsumer, true, false},
		{EdgeRelation, false, true},
	}
	for _, tt := range tests {
		if got := tt.kind.IsConsumer(); got != tt.consumer {
			t.Errorf("%v.IsConsumer() = %v", tt.kind, got)
		}
		if got := tt.kind.Dashed(); got != tt.dashed {
			t.Errorf("%v.Dashed() = %v", tt.kind, got)
		}
	}
}

func mustAdd(t *testing.T, d *Diagram, n Node) {
	t.Helper()
	if _, err := d.AddNode(n); err != nil {
		t.Fatalf("AddNode(%s): %v", n.ID, err)
	}
}
