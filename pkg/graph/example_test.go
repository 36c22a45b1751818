package graph_test

import (
	"fmt"
	"strings"

	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/graph"
)

func ExampleBuild() {
	doc, err := graph.Read(strings.NewReader(`{
		"nodes": [
			{"id": "src", "x": 0, "y": 0, "pins": [{"id": "out", "output": true}]},
			{"id": "sink", "x": 300, "y": 0, "pins": [{"id": "in"}]}
		],
		"wires": [
			{"from": {"node": "src", "pin": "out"}, "to": {"node": "sink", "pin": "in"}}
		]
	}`))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	mem, err := graph.Build(doc, geom.Rect{Max: geom.Pt(800, 600)})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, w := range mem.Wires() {
		fmt.Printf("%s: %s/%s -> %s/%s\n", w.ID, w.FromNode, w.FromPin, w.ToNode, w.ToPin)
	}
	// Output:
	// w1: src/out -> sink/in
}
