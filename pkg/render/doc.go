// Package render groups the exporters of built diagrams.
//
// The [nodelink] subpackage draws a diagram as a Graphviz graph with every
// node pinned to its saved position, and converts it to Cytoscape.js
// elements for browser widgets:
//
//	dot := nodelink.ToDOT(frame.Nodes, frame.Edges, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	els := nodelink.ToElements(frame.Nodes, frame.Edges)
//
// [nodelink]: github.com/matzehuels/issuegraph/pkg/render/nodelink
package render
