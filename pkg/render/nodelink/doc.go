// Package nodelink renders issue diagrams as node-link drawings.
//
// # Overview
//
// Nodes keep the positions the diagram assigned them: [ToDOT] writes a
// Graphviz graph for the neato engine with every node pinned, so Graphviz
// only draws and routes edges. Components are rounded boxes, interfaces
// small circles and issue folders tiny boxes coloured by category.
// Containers are not drawn; their folders already sit where the container
// is.
//
// # Usage
//
//	dot := nodelink.ToDOT(frame.Nodes, frame.Edges, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [ToJSON] exports the same nodes and edges as Cytoscape.js elements, with
// the compound parent set so a browser client can rebuild the grouping.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
