// Package scene defines the boundary between the canvas editor core and the
// rendering surface that owns node, pin and wire geometry.
//
// # Architecture
//
// The editor never owns scene topology. Geometric truth lives in a [Surface]
// (a DOM tree, a terminal frame buffer, a retained scene graph) and the core
// reaches it through two contracts:
//
//   - [Surface]: the rendering surface, consumed. Exposes per-node transforms
//     and screen boxes, pin hitboxes, rendered wire paths that support
//     arc-length sampling, and the editor chrome (viewport transform, view
//     box, selection rectangle, temporary wire).
//   - [Query]: read-only geometry questions the editor asks every frame. The
//     [Adapter] answers them from any Surface.
//
// [Memory] is a retained, in-process Surface with a spatial hash index. It is
// used by the terminal editor, the live service, the replay runner and tests.
//
// # Missing Entities
//
// Scenes change underneath interactions (a node can be removed mid-drag), so
// every lookup fails softly. Lookups return an error matching [ErrNotFound]
// (and carrying a NODE_NOT_FOUND / PIN_NOT_FOUND / WIRE_NOT_FOUND code) or a
// false ok flag; callers skip the entity and carry on.
//
// # Concurrency
//
// Memory is safe for concurrent use. The Adapter holds no state of its own.
package scene
