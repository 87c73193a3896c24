package graphview

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/issuegraph/pkg/positions"
)

// Registry opens views on demand and keeps one per project.
type Registry struct {
	mu    sync.Mutex
	views map[string]*View
	store positions.Store
	opts  Options
}

// NewRegistry creates a registry whose views share store and opts.
func NewRegistry(store positions.Store, opts Options) *Registry {
	return &Registry{views: make(map[string]*View), store: store, opts: opts}
}

// Get returns the view of project, opening it on first use. Views are
// opened without holding the registry lock, so a slow store load only
// delays its own project. When two callers race, the first view stored wins.
func (r *Registry) Get(ctx context.Context, project string) (*View, error) {
	if v, ok := r.Lookup(project); ok {
		return v, nil
	}
	v, err := Open(ctx, project, r.store, r.opts)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.views[project]; ok {
		return existing, nil
	}
	r.views[project] = v
	return v, nil
}

// Lookup returns the view of project if it is open.
func (r *Registry) Lookup(project string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[project]
	return v, ok
}

// Projects returns the open project keys in ascending order.
func (r *Registry) Projects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.views))
}
