package diagram

import (
	"fmt"
	"slices"

	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

// Kind is the closed set of node variants.
type Kind int

const (
	KindComponent Kind = iota
	KindInterface
	KindIssueGroupContainer
	KindIssueFolder
)

var kindNames = [...]string{
	KindComponent:           "component",
	KindInterface:           "interface",
	KindIssueGroupContainer: "issue-group-container",
	KindIssueFolder:         "issue-folder",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid node kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", string(b))
}

// IsOwner reports whether nodes of this kind own an issue group container.
func (k Kind) IsOwner() bool {
	return k == KindComponent || k == KindInterface
}

// Behavior selects how a compound group places its children.
type Behavior int

const (
	// BehaviorNone marks a group without placement rules.
	BehaviorNone Behavior = iota
	// BehaviorOwnerPlacement puts the single container child on a compass
	// side of the owner.
	BehaviorOwnerPlacement
	// BehaviorFolderArrangement lines folders up inside the container,
	// ordered by category.
	BehaviorFolderArrangement
)

// CompoundGroup is the grouping data of a node that owns children.
type CompoundGroup struct {
	// Root marks the top of a grouping tree (components and interfaces).
	Root     bool     `json:"root,omitempty"`
	Behavior Behavior `json:"behavior"`
	// Side is only meaningful for BehaviorOwnerPlacement.
	Side     Side     `json:"side,omitempty"`
	Children []string `json:"children,omitempty"`
}

// Node is a diagram vertex. Which optional fields are set depends on Kind.
type Node struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Label    string `json:"label,omitempty"`
	Position Point  `json:"position"`

	// OfferedByID is set on interfaces.
	OfferedByID string `json:"offeredBy,omitempty"`

	// Category, IssueCount and CountLabel are set on folders.
	Category   snapshot.IssueCategory `json:"category,omitempty"`
	IssueCount int                    `json:"issueCount,omitempty"`
	CountLabel string                 `json:"countLabel,omitempty"`

	// Side is set on containers.
	Side Side `json:"side,omitempty"`

	// Group is non-nil for nodes that own children.
	Group *CompoundGroup `json:"group,omitempty"`
	// Parent is the ID of the node whose group contains this node.
	Parent string `json:"parent,omitempty"`
}

// Clone returns a copy of n that shares no memory with it.
func (n *Node) Clone() Node {
	c := *n
	if n.Group != nil {
		g := *n.Group
		g.Children = slices.Clone(n.Group.Children)
		c.Group = &g
	}
	return c
}

// HasChildren reports whether the node's group holds at least one child.
func (n *Node) HasChildren() bool {
	return n.Group != nil && len(n.Group.Children) > 0
}

// DisplayLabel returns the count label for folders, otherwise the label if
// set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Kind == KindIssueFolder {
		return n.CountLabel
	}
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

const containerSuffix = "__issue-group-container"

// ContainerID returns the ID of the issue group container owned by ownerID.
func ContainerID(ownerID string) string {
	return ownerID + containerSuffix
}

// FolderID returns the ID of the folder for one category on ownerID.
func FolderID(ownerID string, category snapshot.IssueCategory) string {
	return ownerID + "__" + string(category)
}
