// Package observability provides hooks for metrics and logging.
//
// Libraries emit events through hook interfaces without depending on a
// metrics backend. The binary registers concrete implementations at startup
// (see internal/metrics); until then every hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDiagramHooks(metrics.Diagram(reg))
//	    observability.SetStoreHooks(metrics.Store(reg))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Diagram().OnBuildStart(ctx, project)
//	// ... rebuild ...
//	observability.Diagram().OnBuildComplete(ctx, project, nodes, edges, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Diagram Hooks
// =============================================================================

// DiagramHooks receives events from diagram rebuilds and layout seeding.
type DiagramHooks interface {
	// Build events
	OnBuildStart(ctx context.Context, project string)
	OnBuildComplete(ctx context.Context, project string, nodes, edges int, duration time.Duration)

	// OnSeed records the one-shot auto-layout pass.
	OnSeed(ctx context.Context, project string, seeded int, duration time.Duration)
}

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives events from gesture handling.
type InteractionHooks interface {
	// OnEvent records a handled gesture event.
	OnEvent(ctx context.Context, eventType, source string)

	// OnIntent records an emitted outbound intent.
	OnIntent(ctx context.Context, intent string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from position record stores.
type StoreHooks interface {
	// OnLoad records a record load. found is false when no record existed.
	OnLoad(ctx context.Context, backend string, found bool)

	// OnSave records a record write.
	OnSave(ctx context.Context, backend string, size int, err error)

	// OnRecovered records a malformed record replaced by an empty one.
	OnRecovered(ctx context.Context, backend string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDiagramHooks is a no-op implementation of DiagramHooks.
type NoopDiagramHooks struct{}

func (NoopDiagramHooks) OnBuildStart(context.Context, string)                             {}
func (NoopDiagramHooks) OnBuildComplete(context.Context, string, int, int, time.Duration) {}
func (NoopDiagramHooks) OnSeed(context.Context, string, int, time.Duration)               {}

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnEvent(context.Context, string, string) {}
func (NoopInteractionHooks) OnIntent(context.Context, string)        {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, bool)       {}
func (NoopStoreHooks) OnSave(context.Context, string, int, error) {}
func (NoopStoreHooks) OnRecovered(context.Context, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	diagramHooks     DiagramHooks     = NoopDiagramHooks{}
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	storeHooks       StoreHooks       = NoopStoreHooks{}
	hooksMu          sync.RWMutex
)

// SetDiagramHooks registers custom diagram hooks.
// This should be called once at application startup before any view is opened.
func SetDiagramHooks(h DiagramHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		diagramHooks = h
	}
}

// SetInteractionHooks registers custom interaction hooks.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Diagram returns the registered diagram hooks.
func Diagram() DiagramHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return diagramHooks
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	diagramHooks = NoopDiagramHooks{}
	interactionHooks = NoopInteractionHooks{}
	storeHooks = NoopStoreHooks{}
}
