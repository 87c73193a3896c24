package snapshot

import (
	"context"
	"slices"
)

// Local resolves location details from the snapshot itself. It stands in for
// the remote detail queries when the whole issue list is already at hand.
type Local struct {
	Snapshot *Snapshot
}

// ResolveComponentDetail returns the issues of a component.
func (l Local) ResolveComponentDetail(_ context.Context, id string) ([]Issue, error) {
	return l.issues(id), nil
}

// ResolveInterfaceDetail returns the issues located on an interface.
func (l Local) ResolveInterfaceDetail(_ context.Context, id string) ([]Issue, error) {
	return l.issues(id), nil
}

func (l Local) issues(id string) []Issue {
	if l.Snapshot == nil {
		return nil
	}
	return slices.Clone(l.Snapshot.Issues[id])
}
