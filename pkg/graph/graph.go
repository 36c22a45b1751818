package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
)

// =============================================================================
// Document I/O
// =============================================================================

// ReadFile reads a JSON scene document.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Read(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Read decodes a JSON scene document. Unknown fields are rejected.
func Read(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	return doc, nil
}

// Unmarshal decodes a JSON scene document from bytes.
func Unmarshal(data []byte) (Document, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes doc as indented JSON.
func Write(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// =============================================================================
// Document ↔ Scene Conversion
// =============================================================================

// Build creates a scene.Memory with the given container bounds holding the
// document's nodes and wires. Any invalid node, pin or wire fails the whole
// build.
func Build(doc Document, bounds geom.Rect) (*scene.Memory, error) {
	mem := scene.NewMemory(bounds)
	for i := range doc.Nodes {
		spec, err := nodeSpec(&doc.Nodes[i])
		if err != nil {
			return nil, err
		}
		if err := mem.AddNode(spec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "node %d", i)
		}
	}
	for i, w := range doc.Wires {
		from := scene.PinRef{Node: scene.NodeID(w.From.Node), Pin: scene.PinID(w.From.Pin), IsOutput: true}
		to := scene.PinRef{Node: scene.NodeID(w.To.Node), Pin: scene.PinID(w.To.Pin)}
		var err error
		if w.ID == "" {
			_, err = mem.Connect(from, to)
		} else {
			err = mem.AddWire(scene.Wire{
				ID:       scene.WireID(w.ID),
				FromNode: from.Node,
				FromPin:  from.Pin,
				ToNode:   to.Node,
				ToPin:    to.Pin,
			})
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "wire %d", i)
		}
	}
	return mem, nil
}

func nodeSpec(n *Node) (scene.NodeSpec, error) {
	if err := errors.ValidateFinite("node "+n.ID, n.X, n.Y, n.Width, n.Height); err != nil {
		return scene.NodeSpec{}, err
	}
	size := geom.Size{W: n.Width, H: n.Height}
	if size.W <= 0 || size.H <= 0 {
		size = scene.DefaultNodeSize
	}
	if size.W > scene.MaxNodeSide || size.H > scene.MaxNodeSide {
		return scene.NodeSpec{}, errors.New(errors.ErrCodeInvalidScene, "node %s is larger than %g units", n.ID, scene.MaxNodeSide)
	}

	var inputs, outputs []scene.PinID
	pins := make([]scene.PinSpec, 0, len(n.Pins))
	for _, p := range n.Pins {
		if (p.X == nil) != (p.Y == nil) {
			return scene.NodeSpec{}, errors.New(errors.ErrCodeInvalidScene, "pin %s/%s: x and y must be set together", n.ID, p.ID)
		}
		if p.X == nil {
			if p.Output {
				outputs = append(outputs, scene.PinID(p.ID))
			} else {
				inputs = append(inputs, scene.PinID(p.ID))
			}
			continue
		}
		pins = append(pins, scene.PinSpec{ID: scene.PinID(p.ID), Output: p.Output, Offset: geom.Pt(*p.X, *p.Y)})
	}
	pins = append(pins, scene.LayoutPins(size, inputs, outputs)...)

	return scene.NodeSpec{
		ID:    scene.NodeID(n.ID),
		Label: n.DisplayLabel(),
		Pos:   geom.Pt(n.X, n.Y),
		Size:  size,
		Pins:  pins,
	}, nil
}

// FromScene converts the current state of a scene to a document. Every pin
// offset is written explicitly.
func FromScene(mem *scene.Memory) Document {
	specs := mem.Nodes()
	doc := Document{Nodes: make([]Node, len(specs))}
	for i, s := range specs {
		n := Node{
			ID:     string(s.ID),
			X:      s.Pos.X,
			Y:      s.Pos.Y,
			Width:  s.Size.W,
			Height: s.Size.H,
			Pins:   make([]Pin, len(s.Pins)),
		}
		if s.Label != string(s.ID) {
			n.Label = s.Label
		}
		for j, p := range s.Pins {
			x, y := p.Offset.X, p.Offset.Y
			n.Pins[j] = Pin{ID: string(p.ID), Output: p.Output, X: &x, Y: &y}
		}
		doc.Nodes[i] = n
	}
	for _, w := range mem.Wires() {
		doc.Wires = append(doc.Wires, Wire{
			ID:   string(w.ID),
			From: Endpoint{Node: string(w.FromNode), Pin: string(w.FromPin)},
			To:   Endpoint{Node: string(w.ToNode), Pin: string(w.ToPin)},
		})
	}
	return doc
}
