// Package wire computes the paths drawn for wires between connector pins.
//
// Every wire, committed or temporary, is a horizontal-tangent cubic Bézier:
// the control points are offset horizontally from each endpoint by
// min(|to.x-from.x|/2, [MaxControlOffset]) world units, so the curve leaves
// and enters pins horizontally regardless of the vertical displacement.
//
//	c := wire.Route(from, to)
//	d := c.Path() // "M 0 0 C 50 0, 50 40, 100 40"
//
// # Sampling
//
// Box selection tests wires by walking the rendered path at a fixed arc-length
// interval ([SampleInterval] world units) and checking each sample for
// containment. [Arc] gives a [Curve] the arc-length parameterization a
// rendering surface would provide (TotalLength / PointAtLength), and
// [Intersects] performs the sampled test against any [Sampler].
//
// The fixed interval can miss very thin boxes; selection is a UI convenience
// and the approximation is kept.
package wire
