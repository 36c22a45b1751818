// Package graph provides the JSON document format for canvas scenes.
//
// A document lists nodes with their world positions, sizes and pins, and the
// wires between pins. It is how scenes enter penguin: the terminal editor,
// the replay runner and the live service all start from one.
//
// # Format
//
//	{
//	  "nodes": [
//	    {"id": "src", "label": "Source", "x": 0, "y": 0, "width": 120, "height": 60,
//	     "pins": [{"id": "out", "output": true}]},
//	    {"id": "sink", "x": 300, "y": 0,
//	     "pins": [{"id": "in", "x": 0, "y": 30}]}
//	  ],
//	  "wires": [
//	    {"id": "w1", "from": {"node": "src", "pin": "out"}, "to": {"node": "sink", "pin": "in"}}
//	  ]
//	}
//
// Width and height default to [scene.DefaultNodeSize]. Pins without an
// explicit x/y offset are spread along the node edge: inputs on the left,
// outputs on the right. Wires without an id get one from the scene.
//
// Common operations:
//
//	doc, _ := graph.ReadFile("scene.json")   // File → Document
//	mem, _ := graph.Build(doc, bounds)       // Document → scene.Memory
//	doc = graph.FromScene(mem)               // scene.Memory → Document
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct values.
package graph
