// Package viewport decides when a rebuilt diagram is zoomed to fit and when
// the user's pan and zoom are kept.
//
// [BoundingBox] measures the live diagram with fixed per-kind footprints.
// [Controller] is a small state machine:
//
//	          ReloadRequested
//	   +-------------------------------+
//	   v                               |
//	NeedsFit --Decide (fit)--------> Stable
//	   |  \                            ^
//	   |   +--DragEnded----------------+
//	   |                               |
//	   +--NodeClicked--> SuppressedAfterDetailClose --Decide (keep)--+
//
// A project with exactly one component is always fitted, whatever the state.
package viewport
