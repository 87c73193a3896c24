package snapshot

import (
	"fmt"
	"maps"
	"slices"
)

// IssueCategory classifies an issue. The zero value is not a valid category.
type IssueCategory string

const (
	CategoryBug            IssueCategory = "BUG"
	CategoryFeatureRequest IssueCategory = "FEATURE_REQUEST"
	CategoryUnclassified   IssueCategory = "UNCLASSIFIED"
)

var categories = []IssueCategory{CategoryBug, CategoryFeatureRequest, CategoryUnclassified}

// Categories returns every issue category in the fixed iteration order.
func Categories() []IssueCategory {
	return slices.Clone(categories)
}

// Valid reports whether c is one of the known categories.
func (c IssueCategory) Valid() bool {
	return slices.Contains(categories, c)
}

// ParseCategory converts a wire string into an IssueCategory.
func ParseCategory(s string) (IssueCategory, error) {
	c := IssueCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown issue category %q", s)
	}
	return c, nil
}

// Component summarizes one of the project's components.
type Component struct {
	ID          string `json:"id" toml:"id" yaml:"id"`
	Name        string `json:"name" toml:"name" yaml:"name"`
	Description string `json:"description,omitempty" toml:"description" yaml:"description"`
}

// Interface is a contract offered by one component and consumed by others.
type Interface struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	OfferedByID string              `json:"offeredById"`
	ConsumedBy  map[string]struct{} `json:"-"`
}

// Consumers returns the consuming component IDs in ascending order.
func (i Interface) Consumers() []string {
	return slices.Sorted(maps.Keys(i.ConsumedBy))
}

// IssueCounts maps each category to the number of open issues.
type IssueCounts map[IssueCategory]int

// Total returns the number of issues across all categories.
func (c IssueCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// FolderKey addresses one issue folder: a location and a category.
type FolderKey struct {
	LocationID string        `json:"location" toml:"location" yaml:"location"`
	Category   IssueCategory `json:"category" toml:"category" yaml:"category"`
}

// RelatedFolders is the registry of cross-referencing folders. Each entry is
// directional: (A,BUG) -> [(B,BUG)] says nothing about (B,BUG).
type RelatedFolders map[FolderKey][]FolderKey

// Targets returns the registered targets of key, or nil.
func (r RelatedFolders) Targets(key FolderKey) []FolderKey {
	return r[key]
}

// Issue is a single issue as needed to resolve a folder click.
type Issue struct {
	ID         string        `json:"id" toml:"id" yaml:"id"`
	Title      string        `json:"title,omitempty" toml:"title" yaml:"title"`
	Category   IssueCategory `json:"category" toml:"category" yaml:"category"`
	LocationID string        `json:"location" toml:"location" yaml:"location"`
	Open       bool          `json:"open" toml:"open" yaml:"open"`
}

// Snapshot is the complete data a diagram is built from.
// It is treated as immutable once handed to a builder.
type Snapshot struct {
	Components map[string]Component
	Interfaces map[string]Interface
	Locations  map[string]IssueCounts
	Related    RelatedFolders

	// Issues lists issues per location. Optional: it only feeds the local
	// detail resolver.
	Issues map[string][]Issue
}

// New returns an empty snapshot with all maps initialized.
func New() *Snapshot {
	return &Snapshot{
		Components: make(map[string]Component),
		Interfaces: make(map[string]Interface),
		Locations:  make(map[string]IssueCounts),
		Related:    make(RelatedFolders),
		Issues:     make(map[string][]Issue),
	}
}

// ComponentIDs returns component IDs in ascending order.
func (s *Snapshot) ComponentIDs() []string {
	return slices.Sorted(maps.Keys(s.Components))
}

// InterfaceIDs returns interface IDs in ascending order.
func (s *Snapshot) InterfaceIDs() []string {
	return slices.Sorted(maps.Keys(s.Interfaces))
}

// Counts returns the issue counts of a location. A location without an entry
// has no issues.
func (s *Snapshot) Counts(locationID string) IssueCounts {
	if c, ok := s.Locations[locationID]; ok {
		return c
	}
	return IssueCounts{}
}

// Validate returns a warning for every reference that points at an unknown
// component, interface or location. Dangling references are not fatal; the
// diagram builder skips them.
func (s *Snapshot) Validate() []string {
	var warnings []string
	for _, id := range s.InterfaceIDs() {
		iface := s.Interfaces[id]
		if _, ok := s.Components[iface.OfferedByID]; !ok {
			warnings = append(warnings, fmt.Sprintf("interface %s: offering component %q not found", id, iface.OfferedByID))
		}
		for _, c := range iface.Consumers() {
			if _, ok := s.Components[c]; !ok {
				warnings = append(warnings, fmt.Sprintf("interface %s: consuming component %q not found", id, c))
			}
		}
	}
	keys := slices.SortedFunc(maps.Keys(s.Related), compareFolderKeys)
	for _, from := range keys {
		if !s.isLocation(from.LocationID) {
			warnings = append(warnings, fmt.Sprintf("relation from unknown location %q", from.LocationID))
		}
		for _, to := range s.Related[from] {
			if !s.isLocation(to.LocationID) {
				warnings = append(warnings, fmt.Sprintf("relation %s/%s: unknown target location %q", from.LocationID, from.Category, to.LocationID))
			}
		}
	}
	return warnings
}

func (s *Snapshot) isLocation(id string) bool {
	if _, ok := s.Components[id]; ok {
		return true
	}
	_, ok := s.Interfaces[id]
	return ok
}

func compareFolderKeys(a, b FolderKey) int {
	if a.LocationID != b.LocationID {
		if a.LocationID < b.LocationID {
			return -1
		}
		return 1
	}
	switch {
	case a.Category < b.Category:
		return -1
	case a.Category > b.Category:
		return 1
	}
	return 0
}
