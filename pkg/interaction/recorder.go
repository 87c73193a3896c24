package interaction

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/issuegraph/pkg/diagram"
)

// Intent is one recorded outbound intent.
type Intent struct {
	ID       string         `json:"id"`
	Name     IntentName     `json:"name"`
	NodeID   string         `json:"nodeId,omitempty"`
	SourceID string         `json:"sourceId,omitempty"`
	TargetID string         `json:"targetId,omitempty"`
	Position *diagram.Point `json:"position,omitempty"`
	At       time.Time      `json:"at"`
}

// Recorder is an [Intents] that keeps every intent in memory, optionally
// forwarding to another Intents. The HTTP API uses it to return the intents
// a request produced. Safe for concurrent use.
type Recorder struct {
	// Next receives every intent after it is recorded. May be nil.
	Next Intents

	mu      sync.Mutex
	intents []Intent
}

// NewRecorder creates a recorder forwarding to next, which may be nil.
func NewRecorder(next Intents) *Recorder {
	return &Recorder{Next: next}
}

func (r *Recorder) record(in Intent) {
	in.ID = uuid.NewString()
	in.At = time.Now().UTC()
	r.mu.Lock()
	r.intents = append(r.intents, in)
	r.mu.Unlock()
}

// Intents returns the recorded intents in emission order.
func (r *Recorder) Intents() []Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.intents)
}

// Drain returns the recorded intents and forgets them.
func (r *Recorder) Drain() []Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.intents
	r.intents = nil
	return out
}

// Count returns how many intents named name were recorded.
func (r *Recorder) Count(name IntentName) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, in := range r.intents {
		if in.Name == name {
			n++
		}
	}
	return n
}

func (r *Recorder) NavigateToComponent(ctx context.Context, id string) {
	r.record(Intent{Name: IntentNavigateToComponent, NodeID: id})
	if r.Next != nil {
		r.Next.NavigateToComponent(ctx, id)
	}
}

func (r *Recorder) NavigateToInterface(ctx context.Context, id string) {
	r.record(Intent{Name: IntentNavigateToInterface, NodeID: id})
	if r.Next != nil {
		r.Next.NavigateToInterface(ctx, id)
	}
}

func (r *Recorder) NavigateToIssue(ctx context.Context, id string) {
	r.record(Intent{Name: IntentNavigateToIssue, NodeID: id})
	if r.Next != nil {
		r.Next.NavigateToIssue(ctx, id)
	}
}

func (r *Recorder) NavigateToComponentIssues(ctx context.Context, rootID string) {
	r.record(Intent{Name: IntentNavigateToComponentIssues, NodeID: rootID})
	if r.Next != nil {
		r.Next.NavigateToComponentIssues(ctx, rootID)
	}
}

func (r *Recorder) NavigateToInterfaceIssues(ctx context.Context, rootID string) {
	r.record(Intent{Name: IntentNavigateToInterfaceIssues, NodeID: rootID})
	if r.Next != nil {
		r.Next.NavigateToInterfaceIssues(ctx, rootID)
	}
}

func (r *Recorder) AddConsumedInterface(ctx context.Context, sourceID, targetID string) {
	r.record(Intent{Name: IntentAddConsumedInterface, SourceID: sourceID, TargetID: targetID})
	if r.Next != nil {
		r.Next.AddConsumedInterface(ctx, sourceID, targetID)
	}
}

func (r *Recorder) RemoveConsumedInterface(ctx context.Context, sourceID, targetID string) {
	r.record(Intent{Name: IntentRemoveConsumedInterface, SourceID: sourceID, TargetID: targetID})
	if r.Next != nil {
		r.Next.RemoveConsumedInterface(ctx, sourceID, targetID)
	}
}

func (r *Recorder) OpenInterfaceCreationDialog(ctx context.Context, componentID string, drop diagram.Point) {
	r.record(Intent{Name: IntentOpenInterfaceCreationDialog, SourceID: componentID, Position: &drop})
	if r.Next != nil {
		r.Next.OpenInterfaceCreationDialog(ctx, componentID, drop)
	}
}
