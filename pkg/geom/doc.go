// Package geom provides the 2D primitives and the viewport transform used by
// the canvas editor.
//
// Two coordinate systems are involved:
//
//   - Screen space: client coordinates of pointer events, in pixels.
//   - World space: coordinates of the graph content, invariant under pan/zoom.
//
// A [Transform] converts between them. It is a plain value: every method
// returns a new Transform and none of them mutate the receiver.
//
// # Zoom About Cursor
//
// [Transform.ZoomAt] changes the zoom factor while keeping the world point under
// the cursor stationary:
//
//	t := geom.Transform{Zoom: 1}
//	before := t.ScreenToWorld(cursor)
//	t = t.ZoomAt(cursor, 1.1)
//	after := t.ScreenToWorld(cursor) // == before
//
// The zoom factor is always clamped to [MinZoom, MaxZoom].
package geom
