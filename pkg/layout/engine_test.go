package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

func testSnapshot() *snapshot.Snapshot {
	s := snapshot.New()
	for _, id := range []string{"api", "web", "worker", "db", "lonely"} {
		s.Components[id] = snapshot.Component{ID: id, Name: id}
	}
	s.Interfaces["rest"] = snapshot.Interface{
		ID: "rest", OfferedByID: "api",
		ConsumedBy: map[string]struct{}{"web": {}, "worker": {}},
	}
	s.Interfaces["sql"] = snapshot.Interface{
		ID: "sql", OfferedByID: "db",
		ConsumedBy: map[string]struct{}{"ghost": {}},
	}
	return s
}

func TestFromSnapshot(t *testing.T) {
	g := FromSnapshot(testSnapshot())
	if g.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", g.Len())
	}
	for _, pair := range [][2]string{{"api", "rest"}, {"web", "rest"}, {"worker", "rest"}, {"db", "sql"}} {
		if !g.Connected(pair[0], pair[1]) || !g.Connected(pair[1], pair[0]) {
			t.Errorf("%s and %s should be connected", pair[0], pair[1])
		}
	}
	if g.Connected("sql", "ghost") {
		t.Error("unknown consumer should not become a node")
	}
	if got := len(g.components()); got != 3 {
		t.Errorf("components = %d, want 3", got)
	}
}

func TestFromDiagramIgnoresFolders(t *testing.T) {
	d := diagram.New()
	for _, n := range []diagram.Node{
		{ID: "api", Kind: diagram.KindComponent},
		{ID: "rest", Kind: diagram.KindInterface},
		{ID: "api__BUG", Kind: diagram.KindIssueFolder},
		{ID: "rest__BUG", Kind: diagram.KindIssueFolder},
	} {
		if _, err := d.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	_ = d.AddEdge(diagram.ProvisionEdge("api", "rest"))
	_ = d.AddEdge(diagram.RelationEdge("api__BUG", "rest__BUG"))

	g := FromDiagram(d)
	if g.Len() != 2 || !g.Connected("api", "rest") {
		t.Errorf("FromDiagram() nodes = %v", g.Nodes())
	}
}

func TestSeedContract(t *testing.T) {
	g := FromSnapshot(testSnapshot())
	pos := New(Config{}, nil).Seed(g)

	if len(pos) != g.Len() {
		t.Fatalf("Seed() returned %d positions for %d nodes", len(pos), g.Len())
	}
	for id, p := range pos {
		if !p.IsFinite() {
			t.Errorf("%s has non-finite position %v", id, p)
		}
	}

	ids := g.Nodes()
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if d := pos[ids[i]].Dist(pos[ids[j]]); d < 1 {
				t.Errorf("%s and %s overlap (%.2f apart)", ids[i], ids[j], d)
			}
		}
	}

	// Connected pairs are closer than any pair from different components.
	maxConnected := 0.0
	for _, a := range ids {
		for _, b := range g.Neighbors(a) {
			maxConnected = max(maxConnected, pos[a].Dist(pos[b]))
		}
	}
	for _, pair := range [][2]string{{"api", "db"}, {"rest", "lonely"}, {"sql", "worker"}} {
		if d := pos[pair[0]].Dist(pos[pair[1]]); d <= maxConnected {
			t.Errorf("unconnected %s-%s (%.1f) not farther than connected max (%.1f)", pair[0], pair[1], d, maxConnected)
		}
	}
}

func TestSeedSeparatesStarFromIsolatedNode(t *testing.T) {
	g := NewGraph()
	for i := range 30 {
		g.Connect("hub", fmt.Sprintf("leaf%02d", i))
	}
	g.AddNode("alone")
	pos := New(Config{}, nil).Seed(g)

	longest := 0.0
	for _, leaf := range g.Neighbors("hub") {
		longest = max(longest, pos["hub"].Dist(pos[leaf]))
	}
	nearest := math.Inf(1)
	for _, id := range g.Nodes() {
		if id != "alone" {
			nearest = min(nearest, pos["alone"].Dist(pos[id]))
		}
	}
	if nearest <= longest {
		t.Errorf("isolated node %.1f from the star, longest hub edge %.1f", nearest, longest)
	}
}

func TestSeedDeterministic(t *testing.T) {
	e := New(Config{Iterations: 50}, nil)
	a := e.Seed(FromSnapshot(testSnapshot()))
	b := e.Seed(FromSnapshot(testSnapshot()))
	for id, p := range a {
		if b[id] != p {
			t.Errorf("%s: %v vs %v", id, p, b[id])
		}
	}
}

func TestSeedIsolatedNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode("a")
	g.AddNode("b")
	pos := New(Config{EdgeLength: 100}, nil).Seed(g)
	if got := pos["b"].X - pos["a"].X; math.Abs(got-200) > 1e-9 {
		t.Errorf("isolated nodes %.1f apart, want 200", got)
	}
}

func TestSeedEmpty(t *testing.T) {
	if got := New(Config{}, nil).Seed(NewGraph()); len(got) != 0 {
		t.Errorf("Seed(empty) = %v", got)
	}
}
