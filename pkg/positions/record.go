package positions

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/matzehuels/issuegraph/pkg/diagram"
)

const keyPrefix = "issuegraph:positions:"

// StorageKey returns the per-project key a record is persisted under.
func StorageKey(project string) string {
	return keyPrefix + project
}

// Record is the persisted layout of one project.
type Record struct {
	Nodes       map[string]diagram.Point `json:"nodes"`
	IssueGroups map[string]diagram.Side  `json:"issueGroups"`
}

// New returns an empty record.
func New() *Record {
	return &Record{
		Nodes:       make(map[string]diagram.Point),
		IssueGroups: make(map[string]diagram.Side),
	}
}

// Position returns the saved position of a node.
func (r *Record) Position(id string) (diagram.Point, bool) {
	if r == nil {
		return diagram.Point{}, false
	}
	p, ok := r.Nodes[id]
	return p, ok
}

// SetPosition saves the position of a node.
func (r *Record) SetPosition(id string, p diagram.Point) {
	if r.Nodes == nil {
		r.Nodes = make(map[string]diagram.Point)
	}
	r.Nodes[id] = p
}

// Side returns the saved side of a container.
func (r *Record) Side(containerID string) (diagram.Side, bool) {
	if r == nil {
		return "", false
	}
	s, ok := r.IssueGroups[containerID]
	return s, ok
}

// SetSide saves the side of a container.
func (r *Record) SetSide(containerID string, s diagram.Side) {
	if r.IssueGroups == nil {
		r.IssueGroups = make(map[string]diagram.Side)
	}
	r.IssueGroups[containerID] = s
}

// Len returns the number of saved entries.
func (r *Record) Len() int {
	return len(r.Nodes) + len(r.IssueGroups)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := New()
	maps.Copy(c.Nodes, r.Nodes)
	maps.Copy(c.IssueGroups, r.IssueGroups)
	return c
}

// Encode returns the wire form of r.
func Encode(r *Record) ([]byte, error) {
	if r == nil {
		r = New()
	}
	out := r
	if r.Nodes == nil || r.IssueGroups == nil {
		out = r.Clone()
	}
	return json.Marshal(out)
}

// Decode parses the wire form of a record. Empty input is an empty record.
//
// Decode never returns nil: when data is malformed it returns an empty
// record and the cause, so callers can report the problem and continue.
func Decode(data []byte) (*Record, error) {
	if len(data) == 0 {
		return New(), nil
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return New(), fmt.Errorf("decode positions: %w", err)
	}
	if r.Nodes == nil {
		r.Nodes = make(map[string]diagram.Point)
	}
	if r.IssueGroups == nil {
		r.IssueGroups = make(map[string]diagram.Side)
	}
	for id, p := range r.Nodes {
		if !p.IsFinite() {
			return New(), fmt.Errorf("decode positions: node %q has non-finite position", id)
		}
	}
	for id, s := range r.IssueGroups {
		if !s.Valid() {
			return New(), fmt.Errorf("decode positions: container %q has unknown side %q", id, s)
		}
	}
	return &r, nil
}
