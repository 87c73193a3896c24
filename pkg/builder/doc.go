// Package builder turns a data snapshot into a diagram.
//
// [Builder.Build] replaces the whole diagram on every call: it measures the
// current diagram, clears it, then adds owners, folder groups, relation
// edges, and finally provision and consumption edges. Positions come from
// the [positions.Record]; owners without a saved position get an ideal one
// to the right of what was on screen before, and that position is saved
// immediately so the next build places the node at the same spot.
//
// Building twice from the same snapshot and record yields the same nodes at
// the same coordinates.
package builder
