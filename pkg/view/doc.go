// Package view ties layout, viewport, visibility and theme together into the
// state of one interactive tree view.
//
// [State] is an explicit value holding everything a session mutates: the
// viewport controller, the visibility set, the selected node and the applied
// skin. It is created once per data load and replaces any ambient global
// state.
//
// [Session] drives a State from a stream of [Event] values. Events are
// processed one at a time, each to completion, so no locking is needed.
// Resize and theme events are debounced; clicks apply focus immediately and
// then fetch the person's details from the [Backend]. A failed fetch is
// reported without touching focus or the tree.
package view
