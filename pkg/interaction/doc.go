// Package interaction maps diagram gestures to layout updates and intents.
//
// A [Controller] consumes seven gesture events (see [EventType]). Each event
// carries a [Source]; events from [SourceAPI] are programmatic echoes of
// graph changes and never trigger a mutation rule, which keeps the widget
// and the controller from feeding each other.
//
// # Rules
//
//   - Drag end saves the node position, or the compass side of a folder
//     container, and persists the record before returning.
//   - Node click always cancels the widget's selection. With shift held or
//     on a handset, components and interfaces open their detail pages.
//     Otherwise an optional [ContextMenu] may claim the click. Whatever is
//     left goes to the folder rule: a folder with one issue opens that issue,
//     a folder with more opens the owner's issue list.
//   - Edge retarget turns an edge dragged out of a component into a consumer
//     edge (over an interface) or a new offered interface (anywhere else).
//   - Edge add and edge remove of consumer edges are cancelled and become
//     add/remove consumed interface intents.
//   - Edge drop of a fresh new-interface edge opens the interface dialog.
//
// Intents are fire-and-forget: [Intents] methods return nothing, and the
// controller never waits for their effect.
package interaction
