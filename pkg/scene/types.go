package scene

import (
	stderrors "errors"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
)

var (
	// ErrNotFound is matched by every missing node, pin or wire error.
	ErrNotFound = stderrors.New("not found")

	// ErrStructuralAbsence is matched by chrome setters when the element they
	// write to (viewport container, wire layer, ...) does not exist.
	ErrStructuralAbsence = stderrors.New("structural element missing")
)

// NodeID identifies a node. It is opaque to the editor.
type NodeID string

// PinID identifies a pin within its node.
type PinID string

// WireID identifies a wire.
type WireID string

// PinRef addresses a pin: pins ids are scoped to their node and direction.
type PinRef struct {
	Node     NodeID `json:"node"`
	Pin      PinID  `json:"pin"`
	IsOutput bool   `json:"output"`
}

// CanConnect reports whether a wire may join p and o: one output, one input,
// on different nodes.
func (p PinRef) CanConnect(o PinRef) bool {
	return p.IsOutput != o.IsOutput && p.Node != o.Node
}

// Wire is a directed edge from an output pin to an input pin.
type Wire struct {
	ID       WireID `json:"id"`
	FromNode NodeID `json:"from_node"`
	FromPin  PinID  `json:"from_pin"`
	ToNode   NodeID `json:"to_node"`
	ToPin    PinID  `json:"to_pin"`
}

// From returns the output end of the wire.
func (w Wire) From() PinRef { return PinRef{Node: w.FromNode, Pin: w.FromPin, IsOutput: true} }

// To returns the input end of the wire.
func (w Wire) To() PinRef { return PinRef{Node: w.ToNode, Pin: w.ToPin, IsOutput: false} }

// Touches reports whether the wire is attached to node.
func (w Wire) Touches(node NodeID) bool { return w.FromNode == node || w.ToNode == node }

// NodePosition is a node id with its world position.
type NodePosition struct {
	ID NodeID  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func nodeNotFound(id NodeID) error {
	return errors.Wrap(errors.ErrCodeNodeNotFound, ErrNotFound, "node %q", id)
}

func pinNotFound(ref PinRef) error {
	return errors.Wrap(errors.ErrCodePinNotFound, ErrNotFound, "pin %q on node %q (output=%t)", ref.Pin, ref.Node, ref.IsOutput)
}

func wireNotFound(id WireID) error {
	return errors.Wrap(errors.ErrCodeWireNotFound, ErrNotFound, "wire %q", id)
}

func absent(element string) error {
	return errors.Wrap(errors.ErrCodeStructuralAbsence, ErrStructuralAbsence, "missing %s element", element)
}

// Zero-size guard used by adapters dividing by zoom.
func safeZoom(t geom.Transform) float64 {
	if t.Zoom <= 0 {
		return 1
	}
	return t.Zoom
}
