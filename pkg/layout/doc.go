// Package layout seeds positions for owner nodes from their connectivity.
//
// The input is an undirected [Graph] of components and interfaces, linked
// wherever a provision or consumption edge joins them. Issue folders and
// containers never take part. [Engine.Seed] returns a position for every
// input node, including isolated ones.
//
// # Algorithm
//
//  1. Split the graph into connected components (breadth-first, in ID order).
//  2. Lay out each component with Fruchterman-Reingold, starting from nodes
//     evenly spread on a circle so the result is deterministic.
//  3. Pack the components left to right, separated by twice the ideal edge
//     length, vertically centred on y = 0.
//
// Connected nodes therefore end up about one edge length apart, while nodes
// of different components are at least two edge lengths apart.
//
// The engine runs once per view, before the first draw. Its output is saved
// like a user placement, so later rebuilds never move nodes again.
package layout
