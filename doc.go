// Package mural renders a shared, anonymous mural of emotional
// expressions on top of [Ebitengine].
//
// Each expression is an organic blob whose color, silhouette, and size
// encode its feeling. Blobs are laid out along an outward spiral in a
// fixed reference space, animated into place, and explored through pan,
// zoom, tap, double-tap, and long-press gestures.
//
// # Architecture
//
// [Mural] is the controller: it owns the canonical entity collection and
// all transient per-entity state (placement animations, glows,
// ephemera). Store calls run in goroutines and fold their results back
// into the controller on the frame tick, so state is only ever mutated
// between frames.
//
// [View] maps the 800x600 reference space to the window with pan and
// zoom; [Arbiter] turns raw pointer events into the gesture callbacks
// the controller consumes; [Game] glues everything to the Ebitengine
// run loop.
//
// Persistence implementations live in the store subpackage.
//
// [Ebitengine]: https://ebitengine.org
package mural
