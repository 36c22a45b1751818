// Package pkg provides the core libraries for the penguin node-graph canvas.
//
// # Overview
//
// Penguin edits graphs of nodes with typed pins joined by wires, on a canvas
// that can be panned, zoomed and snapped to a grid. The pkg directory is
// organized in layers:
//
//  1. Geometry and math: [geom], [grid], [wire]
//  2. Scene model: [scene] (surface, query and the in-memory implementation),
//     [selection]
//  3. Interaction: [editor], the state machine that turns pointer, wheel and
//     key events into scene mutations
//  4. Documents and output: [graph] (JSON scenes), [export] (DOT and SVG)
//  5. Serving and scripting: [session], [live] (HTTP and WebSocket),
//     [replay] (YAML event scripts)
//  6. Shared infrastructure: [errors], [config], [observability], [buildinfo]
//
// # Architecture
//
// The typical flow through an editing session:
//
//	scene.json
//	     ↓
//	[graph] package (decode + build a scene.Memory)
//	     ↓
//	[session] package (editor.Session attached to the scene)
//	     ↓
//	input events from the terminal UI, a WebSocket client or a replay script
//	     ↓
//	[editor] package (hit testing, drag, wiring, box select, zoom)
//	     ↓
//	scene.Frame → terminal canvas, JSON state, DOT or SVG
//
// # Quick Start
//
//	doc, _ := graph.ReadFile("scene.json")
//	sess, _ := session.Open(doc, geom.Rect{Max: geom.Pt(1280, 800)}, editor.Options{})
//	defer sess.Editor.Detach()
//
//	sess.Editor.Dispatch(editor.PointerDown{Pos: geom.Pt(60, 60)})
//	sess.Editor.Dispatch(editor.PointerMove{Pos: geom.Pt(100, 60)})
//	sess.Editor.Dispatch(editor.PointerUp{Pos: geom.Pt(100, 60)})
//	fmt.Println(sess.Editor.Snapshot().Nodes)
package pkg
