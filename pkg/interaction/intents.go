package interaction

import (
	"context"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

// IntentName identifies an outbound intent.
type IntentName string

const (
	IntentNavigateToComponent         IntentName = "navigateToComponent"
	IntentNavigateToInterface         IntentName = "navigateToInterface"
	IntentNavigateToIssue             IntentName = "navigateToIssue"
	IntentNavigateToComponentIssues   IntentName = "navigateToComponentIssues"
	IntentNavigateToInterfaceIssues   IntentName = "navigateToInterfaceIssues"
	IntentAddConsumedInterface        IntentName = "addConsumedInterface"
	IntentRemoveConsumedInterface     IntentName = "removeConsumedInterface"
	IntentOpenInterfaceCreationDialog IntentName = "openInterfaceCreationDialog"
)

// Intents receives navigation and mutation requests. Implementations must
// not block; the controller does not wait for any effect.
type Intents interface {
	NavigateToComponent(ctx context.Context, id string)
	NavigateToInterface(ctx context.Context, id string)
	NavigateToIssue(ctx context.Context, id string)
	NavigateToComponentIssues(ctx context.Context, rootID string)
	NavigateToInterfaceIssues(ctx context.Context, rootID string)
	AddConsumedInterface(ctx context.Context, sourceID, targetID string)
	RemoveConsumedInterface(ctx context.Context, sourceID, targetID string)
	OpenInterfaceCreationDialog(ctx context.Context, componentID string, drop diagram.Point)
}

// DetailResolver looks up the issues of an owner when a single-issue folder
// is clicked.
type DetailResolver interface {
	// ResolveComponentDetail returns the issues of a component.
	ResolveComponentDetail(ctx context.Context, id string) ([]snapshot.Issue, error)
	// ResolveInterfaceDetail returns the issues located on an interface.
	ResolveInterfaceDetail(ctx context.Context, id string) ([]snapshot.Issue, error)
}

// ContextMenu may take over a plain click on a node. Claim reports whether
// it did.
type ContextMenu interface {
	Claim(ctx context.Context, node *diagram.Node) bool
}

// NopIntents drops every intent.
type NopIntents struct{}

func (NopIntents) NavigateToComponent(context.Context, string)                        {}
func (NopIntents) NavigateToInterface(context.Context, string)                        {}
func (NopIntents) NavigateToIssue(context.Context, string)                            {}
func (NopIntents) NavigateToComponentIssues(context.Context, string)                  {}
func (NopIntents) NavigateToInterfaceIssues(context.Context, string)                  {}
func (NopIntents) AddConsumedInterface(context.Context, string, string)               {}
func (NopIntents) RemoveConsumedInterface(context.Context, string, string)            {}
func (NopIntents) OpenInterfaceCreationDialog(context.Context, string, diagram.Point) {}

// noDetails resolves nothing, so single-issue clicks emit no intent.
type noDetails struct{}

func (noDetails) ResolveComponentDetail(context.Context, string) ([]snapshot.Issue, error) {
	return nil, nil
}

func (noDetails) ResolveInterfaceDetail(context.Context, string) ([]snapshot.Issue, error) {
	return nil, nil
}

var (
	_ Intents        = NopIntents{}
	_ Intents        = (*Recorder)(nil)
	_ DetailResolver = snapshot.Local{}
)
