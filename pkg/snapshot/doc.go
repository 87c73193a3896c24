// Package snapshot defines the read-only project data a diagram is built from.
//
// A [Snapshot] holds the components and interfaces of one project, the open
// issue count per category for every graph location (a location is a component
// or an interface), the registry of cross-referencing issue folders, and
// optionally the issue list per location.
//
// Snapshots arrive from an upstream data layer. For the CLI and tests they can
// be read from JSON, TOML or YAML files with [ReadFile], which accepts a
// list-based file form and converts it into the map-based [Snapshot]:
//
//	components:
//	  - id: api
//	    name: API Gateway
//	interfaces:
//	  - id: rest
//	    name: REST
//	    offered_by: api
//	    consumed_by: [web]
//	locations:
//	  - id: api
//	    issues: {BUG: 2, FEATURE_REQUEST: 0}
//	relations:
//	  - from: {location: api, category: BUG}
//	    to:
//	      - {location: rest, category: BUG}
//
// # Categories
//
// [IssueCategory] is a closed set. [Categories] returns the fixed iteration
// order used everywhere a per-category sequence is produced, so that folder
// order is stable between rebuilds.
package snapshot
