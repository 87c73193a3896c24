package graphview

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/builder"
	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/interaction"
	"github.com/matzehuels/issuegraph/pkg/layout"
	"github.com/matzehuels/issuegraph/pkg/observability"
	"github.com/matzehuels/issuegraph/pkg/positions"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
	"github.com/matzehuels/issuegraph/pkg/viewport"
)

// Options configures views. Every field is optional.
type Options struct {
	Layout layout.Config

	// Intents receives every intent after the view records it.
	Intents interaction.Intents
	// Resolver looks up issue details. Nil resolves from the issues of the
	// latest snapshot.
	Resolver    interaction.DetailResolver
	ContextMenu interaction.ContextMenu
	Handset     bool

	Logger *log.Logger
}

// Frame is the renderable state of a view after an update or event.
type Frame struct {
	Project     string            `json:"project"`
	Nodes       []diagram.Node    `json:"nodes"`
	Edges       []diagram.Edge    `json:"edges"`
	Fit         viewport.Decision `json:"fit"`
	State       viewport.State    `json:"state"`
	VisibleArea *diagram.Rect     `json:"visibleArea,omitempty"`
	Build       builder.Result    `json:"build"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// View is the diagram of one project. Safe for concurrent use.
type View struct {
	mu sync.Mutex

	project  string
	store    positions.Store
	diagram  *diagram.Diagram
	record   *positions.Record
	builder  *builder.Builder
	layout   *layout.Engine
	viewport *viewport.Controller
	ctrl     *interaction.Controller
	intents  *interaction.Recorder
	logger   *log.Logger

	snapshot  *snapshot.Snapshot
	seeded    bool
	lastFit   viewport.Decision
	lastBuild builder.Result
	warnings  []string
}

// Open loads the saved record of project and returns an empty view.
// A malformed record opens as empty.
func Open(ctx context.Context, project string, store positions.Store, opts Options) (*View, error) {
	if err := errors.ValidateProject(project); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("project", project)

	rec, err := store.Load(ctx, project)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load positions for %s", project)
	}

	v := &View{
		project:  project,
		store:    store,
		diagram:  diagram.New(),
		record:   rec,
		builder:  builder.New(logger),
		layout:   layout.New(opts.Layout, logger),
		viewport: viewport.NewController(),
		intents:  interaction.NewRecorder(opts.Intents),
		logger:   logger,
		snapshot: snapshot.New(),
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = snapshotResolver{v}
	}
	v.ctrl = interaction.New(v.diagram, v.record, v.viewport, interaction.Options{
		Project:     project,
		Store:       store,
		Intents:     v.intents,
		Resolver:    resolver,
		ContextMenu: opts.ContextMenu,
		Handset:     opts.Handset,
		Logger:      logger,
	})
	logger.Debug("opened view", "saved", rec.Len())
	return v, nil
}

// Project returns the project key.
func (v *View) Project() string { return v.project }

// Update rebuilds the diagram from snap and returns the new frame.
// Failing to persist the record is logged, not returned.
func (v *View) Update(ctx context.Context, snap *snapshot.Snapshot) (Frame, error) {
	if snap == nil {
		return Frame{}, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot is required")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	start := time.Now()
	observability.Diagram().OnBuildStart(ctx, v.project)
	v.snapshot = snap
	v.warnings = snap.Validate()
	for _, w := range v.warnings {
		v.logger.Warn("snapshot", "warning", w)
	}

	g := layout.FromSnapshot(snap)
	if !v.seeded && g.Len() > 0 {
		v.seed(ctx, g)
	}

	v.lastBuild = v.builder.Build(v.diagram, snap, v.record)
	if err := v.store.Save(ctx, v.project, v.record); err != nil {
		v.logger.Error("saving positions", "err", err)
	}
	// An empty diagram keeps a pending fit for the first real data.
	v.lastFit = viewport.Decision{}
	if g.Len() > 0 {
		v.lastFit = v.viewport.Decide(v.diagram, len(snap.Components))
	}

	observability.Diagram().OnBuildComplete(ctx, v.project, v.lastBuild.Nodes, v.lastBuild.Edges, time.Since(start))
	v.logger.Info("rebuilt diagram", "nodes", v.lastBuild.Nodes, "edges", v.lastBuild.Edges, "fit", v.lastFit.Fit)
	return v.frame(), nil
}

// seed runs the layout engine once and saves its output for owners that
// have no position yet.
func (v *View) seed(ctx context.Context, g *layout.Graph) {
	start := time.Now()
	seeded := 0
	for id, p := range v.layout.Seed(g) {
		if _, ok := v.record.Position(id); ok {
			continue
		}
		v.record.SetPosition(id, p)
		seeded++
	}
	v.seeded = true
	observability.Diagram().OnSeed(ctx, v.project, seeded, time.Since(start))
	v.logger.Debug("seeded positions", "count", seeded)
}

// Handle applies a gesture and returns the outcome with the intents it
// produced.
func (v *View) Handle(ctx context.Context, ev interaction.Event) (interaction.Outcome, []interaction.Intent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.ctrl.Handle(ctx, ev)
	return out, v.intents.Drain()
}

// RequestReload makes the next update fit the view, as after creating a
// component.
func (v *View) RequestReload() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport.ReloadRequested()
}

// Frame returns the current frame without rebuilding.
func (v *View) Frame() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frame()
}

// Record returns a copy of the position record.
func (v *View) Record() *positions.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.record.Clone()
}

// Snapshot returns the latest snapshot. Callers must not modify it.
func (v *View) Snapshot() *snapshot.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

func (v *View) frame() Frame {
	f := Frame{
		Project:  v.project,
		Fit:      v.lastFit,
		State:    v.viewport.State(),
		Build:    v.lastBuild,
		Warnings: slices.Clone(v.warnings),
	}
	for _, n := range v.diagram.Nodes() {
		f.Nodes = append(f.Nodes, n.Clone())
	}
	for _, e := range v.diagram.Edges() {
		f.Edges = append(f.Edges, e.Clone())
	}
	if area, ok := v.viewport.VisibleArea(); ok {
		f.VisibleArea = &area
	}
	return f
}

// snapshotResolver resolves details from the view's latest snapshot. It is
// only called from Handle, which holds the view lock.
type snapshotResolver struct{ v *View }

func (r snapshotResolver) ResolveComponentDetail(ctx context.Context, id string) ([]snapshot.Issue, error) {
	return snapshot.Local{Snapshot: r.v.snapshot}.ResolveComponentDetail(ctx, id)
}

func (r snapshotResolver) ResolveInterfaceDetail(ctx context.Context, id string) ([]snapshot.Issue, error) {
	return snapshot.Local{Snapshot: r.v.snapshot}.ResolveInterfaceDetail(ctx, id)
}
