// Package diagram is the in-memory node-link model a project view renders.
//
// # Overview
//
// A [Diagram] holds four kinds of nodes and four kinds of edges, both closed
// enums ([Kind], [EdgeKind]):
//
//   - [KindComponent] and [KindInterface] are the owners: one node per
//     component and per interface of the project.
//   - [KindIssueGroupContainer] is an invisible child of every owner. It
//     carries the compass [Side] on which the issue folders sit.
//   - [KindIssueFolder] summarizes the open issues of one category on an
//     owner. Folders are children of the owner's container.
//
// Edges are [EdgeProvision] (offering component to interface),
// [EdgeConsumption] (consuming component to interface), [EdgeDraggedConsumer]
// (a consumer edge still being dragged) and [EdgeRelation] (dashed, folder to
// folder).
//
// # Compound Groups
//
// Grouping is part of the model: a node that owns children has a
// [CompoundGroup] with the ordered child IDs and a placement [Behavior].
// Owners are marked as tree roots, so [Diagram.TreeRootOf] walks from any
// folder up to the component or interface it belongs to.
//
// # Derived IDs
//
// Container and folder IDs are derived from the owner ID with [ContainerID]
// and [FolderID], so relation edges and persisted container sides can address
// them without a lookup table.
//
// # Lifecycle
//
// Diagrams are rebuilt wholesale: [Diagram.Clear] drops every node, edge and
// group, and the builder adds everything again. Nothing is patched in place.
//
// # Concurrency
//
// Diagram is not safe for concurrent use. The owning view serializes access.
package diagram
