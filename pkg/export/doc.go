// Package export writes canvas scenes as Graphviz diagrams.
//
// Nodes keep their canvas positions: [ToDOT] pins every node with
// pos="x,y!" and the SVG renderer lays the graph out with neato, which
// honors pinned positions and only routes the wires. Canvas y grows
// downward, so y is negated on the way out.
//
//	frame := mem.Frame()
//	dot := export.ToDOT(frame, export.Options{Pins: true})
//	svg, err := export.RenderSVG(ctx, dot)
//
// # Dependencies
//
// SVG rendering runs in process through [github.com/goccy/go-graphviz].
// Set [Options.Cache] to reuse layouts of unchanged scenes; see package
// [github.com/igloo/penguin/pkg/cache].
package export
