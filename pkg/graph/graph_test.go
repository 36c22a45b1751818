package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
)

const sample = `{
  "nodes": [
    {"id": "src", "label": "Source", "x": 0, "y": 0, "width": 100, "height": 40,
     "pins": [{"id": "out", "output": true}]},
    {"id": "sink", "x": 300, "y": 50, "width": 100, "height": 40,
     "pins": [{"id": "a", "x": 0, "y": 10}, {"id": "b"}]}
  ],
  "wires": [
    {"id": "w1", "from": {"node": "src", "pin": "out"}, "to": {"node": "sink", "pin": "a"}},
    {"from": {"node": "src", "pin": "out"}, "to": {"node": "sink", "pin": "b"}}
  ]
}`

var bounds = geom.Rect{Max: geom.Pt(800, 600)}

func TestBuild(t *testing.T) {
	doc, err := Unmarshal([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	mem, err := Build(doc, bounds)
	if err != nil {
		t.Fatal(err)
	}

	src, ok := mem.Node("src")
	if !ok {
		t.Fatal("src missing")
	}
	if src.Label != "Source" {
		t.Errorf("label = %q", src.Label)
	}
	if got := src.Pins[0].Offset; got != geom.Pt(100, 20) {
		t.Errorf("auto output pin at %v, want right edge (100, 20)", got)
	}

	sink, _ := mem.Node("sink")
	if sink.Label != "sink" {
		t.Errorf("label should default to id, got %q", sink.Label)
	}
	offsets := map[scene.PinID]geom.Point{}
	for _, p := range sink.Pins {
		offsets[p.ID] = p.Offset
	}
	if offsets["a"] != geom.Pt(0, 10) {
		t.Errorf("explicit pin a at %v", offsets["a"])
	}
	if offsets["b"] != geom.Pt(0, 20) {
		t.Errorf("auto pin b at %v", offsets["b"])
	}

	wires := mem.Wires()
	if len(wires) != 2 {
		t.Fatalf("wires = %+v", wires)
	}
	if wires[0].ID != "w1" || wires[1].ID == "" || wires[1].ID == "w1" {
		t.Errorf("wire ids = %s, %s", wires[0].ID, wires[1].ID)
	}
}

func TestBuildDefaultsSize(t *testing.T) {
	mem, err := Build(Document{Nodes: []Node{{ID: "n"}}}, bounds)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := mem.Node("n")
	if n.Size != scene.DefaultNodeSize {
		t.Errorf("size = %+v", n.Size)
	}
}

func TestBuildRejects(t *testing.T) {
	x := 1.0
	tests := []struct {
		name string
		doc  Document
	}{
		{"duplicate node", Document{Nodes: []Node{{ID: "a"}, {ID: "a"}}}},
		{"empty id", Document{Nodes: []Node{{ID: ""}}}},
		{"huge node", Document{Nodes: []Node{{ID: "a", Width: 1e7, Height: 1e7}}}},
		{"half offset", Document{Nodes: []Node{{ID: "a", Pins: []Pin{{ID: "p", X: &x}}}}}},
		{"unknown pin", Document{
			Nodes: []Node{{ID: "a", Pins: []Pin{{ID: "out", Output: true}}}, {ID: "b"}},
			Wires: []Wire{{From: Endpoint{"a", "out"}, To: Endpoint{"b", "in"}}},
		}},
		{"reversed wire", Document{
			Nodes: []Node{{ID: "a", Pins: []Pin{{ID: "in"}}}, {ID: "b", Pins: []Pin{{ID: "out", Output: true}}}},
			Wires: []Wire{{ID: "w", From: Endpoint{"a", "in"}, To: Endpoint{"b", "out"}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.doc, bounds); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadRejectsUnknownFields(t *testing.T) {
	_, err := Read(strings.NewReader(`{"nodes": [], "edges": []}`))
	if !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("got %v, want INVALID_SCENE", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 || len(doc.Wires) != 2 {
		t.Errorf("doc = %+v", doc)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromSceneRebuilds(t *testing.T) {
	doc, _ := Unmarshal([]byte(sample))
	mem, err := Build(doc, bounds)
	if err != nil {
		t.Fatal(err)
	}
	mem.SetNodeTransform("src", geom.Pt(-40, 60))

	var buf bytes.Buffer
	if err := Write(FromScene(mem), &buf); err != nil {
		t.Fatal(err)
	}
	again, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	rebuilt, err := Build(again, bounds)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := rebuilt.Node("src"); n.Pos != geom.Pt(-40, 60) {
		t.Errorf("moved position lost: %v", n.Pos)
	}
	if len(rebuilt.Wires()) != 2 {
		t.Errorf("wires = %d", len(rebuilt.Wires()))
	}
}
