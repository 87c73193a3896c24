// Package interactiontest provides fakes for the collaborators of an
// interaction controller.
package interactiontest

import (
	"context"
	"sync"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

// Resolver is a fake detail resolver backed by maps.
type Resolver struct {
	Components map[string][]snapshot.Issue
	Interfaces map[string][]snapshot.Issue
	// Err, when set, is returned by every call.
	Err error

	mu    sync.Mutex
	calls []string
}

// ResolveComponentDetail returns Components[id].
func (r *Resolver) ResolveComponentDetail(_ context.Context, id string) ([]snapshot.Issue, error) {
	r.track("component:" + id)
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Components[id], nil
}

// ResolveInterfaceDetail returns Interfaces[id].
func (r *Resolver) ResolveInterfaceDetail(_ context.Context, id string) ([]snapshot.Issue, error) {
	r.track("interface:" + id)
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Interfaces[id], nil
}

// Calls returns the lookups made so far, as "component:<id>" or
// "interface:<id>".
func (r *Resolver) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *Resolver) track(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

// ContextMenu claims clicks on the node IDs in Claims.
type ContextMenu struct {
	Claims map[string]bool
	// Seen lists every node offered to the menu.
	Seen []string
}

// Claim reports whether node.ID is claimed.
func (m *ContextMenu) Claim(_ context.Context, node *diagram.Node) bool {
	m.Seen = append(m.Seen, node.ID)
	return m.Claims[node.ID]
}
