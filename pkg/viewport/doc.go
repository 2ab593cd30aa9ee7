// Package viewport owns the pan/zoom transform of the tree view.
//
// A [State] maps layout coordinates to screen coordinates:
//
//	screen = layout·Scale + (TX, TY)
//
// The [Controller] is a two-phase state machine. Gestures ([Controller.Pan],
// [Controller.ZoomAt]) apply immediately and cancel any running animation.
// Programmatic changes ([Controller.FitToScreen], [Controller.FitReadable],
// [Controller.InitialRootAndChildrenView], [Controller.ZoomBy],
// [Controller.ResetTransform]) start a [Transition]; a newer request replaces
// the running one, starting from wherever the old one had got to. The caller
// drives animations with [Controller.Advance].
//
// All fits are instances of a single [Policy]. The controller remembers the
// last fit it applied and re-runs it on [Controller.Resize], so a resize never
// leaves the content off screen.
//
// Whatever the operation, Scale stays inside [Config.ScaleMin, Config.ScaleMax].
package viewport
