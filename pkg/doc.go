// Package pkg holds the libraries behind issuegraph, an interactive diagram
// of software components, the interfaces between them and the open issues
// attached to both.
//
// # Overview
//
// A project is described by a [snapshot] of its components, interfaces,
// issue locations and relations. The libraries turn it into a diagram
// whose layout survives across sessions:
//
//	snapshot.Snapshot
//	       ↓
//	  [builder] nodes, edges and issue folders
//	       ↓
//	  [layout] seeds positions of new owners (first build only)
//	       ↓
//	  [grouping] places folder containers around their owners
//	       ↓
//	  [positions] saved per project (memory, file, redis, mongo, badger)
//	       ↓
//	  [viewport] decides whether the view zooms to fit
//
// [interaction] turns widget gestures (clicks, drags, edge edits) into
// intents for the host application, and [graphview] ties all of the above
// into one view per project. [server] exposes views over HTTP and
// [render/nodelink] exports them as DOT, SVG or Cytoscape elements.
//
// # Quick Start
//
//	store, _ := positions.Open(ctx, positions.Options{Backend: "file"})
//	view, _ := graphview.Open(ctx, "shop", store, graphview.Options{})
//	frame, _ := view.Update(ctx, snap)
//	svg, _ := nodelink.RenderSVG(nodelink.ToDOT(frame.Nodes, frame.Edges, nodelink.Options{}))
//
// [snapshot]: github.com/matzehuels/issuegraph/pkg/snapshot
// [builder]: github.com/matzehuels/issuegraph/pkg/builder
// [layout]: github.com/matzehuels/issuegraph/pkg/layout
// [grouping]: github.com/matzehuels/issuegraph/pkg/grouping
// [positions]: github.com/matzehuels/issuegraph/pkg/positions
// [viewport]: github.com/matzehuels/issuegraph/pkg/viewport
// [interaction]: github.com/matzehuels/issuegraph/pkg/interaction
// [graphview]: github.com/matzehuels/issuegraph/pkg/graphview
// [server]: github.com/matzehuels/issuegraph/pkg/server
// [render/nodelink]: github.com/matzehuels/issuegraph/pkg/render/nodelink
package pkg
