package positions

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/issuegraph/pkg/diagram"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantErr   bool
		wantNodes int
		wantSides int
	}{
		{"empty input", "", false, 0, 0},
		{"empty object", "{}", false, 0, 0},
		{"null maps", `{"nodes":null,"issueGroups":null}`, false, 0, 0},
		{"full", `{"nodes":{"api":{"x":1,"y":2}},"issueGroups":{"api__issue-group-container":"east"}}`, false, 1, 1},
		{"truncated", `{"nodes":{"api":`, true, 0, 0},
		{"wrong shape", `{"nodes":[1,2,3]}`, true, 0, 0},
		{"bad side", `{"issueGroups":{"c":"up"}}`, true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Decode([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if r == nil {
				t.Fatal("Decode() returned nil record")
			}
			if r.Nodes == nil || r.IssueGroups == nil {
				t.Fatal("Decode() returned nil maps")
			}
			if len(r.Nodes) != tt.wantNodes || len(r.IssueGroups) != tt.wantSides {
				t.Errorf("Decode() = %d nodes, %d sides; want %d, %d", len(r.Nodes), len(r.IssueGroups), tt.wantNodes, tt.wantSides)
			}
		})
	}
}

func TestEncodeShape(t *testing.T) {
	data, err := Encode(&Record{})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != `{"nodes":{},"issueGroups":{}}` {
		t.Errorf("Encode(empty) = %s", got)
	}

	r := New()
	r.SetPosition("api", diagram.Point{X: 160, Y: 30})
	r.SetSide("api__issue-group-container", diagram.SideWest)
	data, err = Encode(r)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"api":{"x":160,"y":30}`, `"api__issue-group-container":"west"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Encode() = %s, missing %s", data, want)
		}
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := back.Position("api"); p != (diagram.Point{X: 160, Y: 30}) {
		t.Errorf("Position(api) = %v", p)
	}
}

func TestEncodeRejectsNonFinite(t *testing.T) {
	r := New()
	r.SetPosition("api", diagram.Point{X: math.NaN()})
	if _, err := Encode(r); err == nil {
		t.Error("Encode() should fail for NaN coordinates")
	}
}

func TestClone(t *testing.T) {
	r := New()
	r.SetPosition("a", diagram.Point{X: 1})
	c := r.Clone()
	c.SetPosition("a", diagram.Point{X: 2})
	if p, _ := r.Position("a"); p.X != 1 {
		t.Error("Clone() shares node map")
	}
}

func TestStorageKey(t *testing.T) {
	if got := StorageKey("demo"); got != "issuegraph:positions:demo" {
		t.Errorf("StorageKey() = %q", got)
	}
}
