// Package graphview runs the diagram of one project.
//
// A [View] owns everything a project diagram needs: the live diagram, the
// position record, the builder, the one-shot layout seed, the viewport
// state machine and the interaction controller. Data changes go through
// [View.Update], gestures through [View.Handle]; both take the view's lock,
// so a rebuild is never observed half done.
//
// Update follows a fixed sequence:
//
//  1. On the first snapshot only, seed positions for every owner that has
//     none saved.
//  2. Rebuild the diagram from the snapshot and the record.
//  3. Persist the record (it may hold new ideal positions).
//  4. Let the viewport decide between fitting and keeping the view.
//
// [Registry] keeps one view per project for long-running servers.
package graphview
