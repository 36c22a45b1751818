package scene

import (
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/wire"
)

// NodeSurface exposes rendered nodes.
type NodeSurface interface {
	// NodeIDs returns every node in draw order (last is topmost).
	NodeIDs() []NodeID
	// NodeTransform returns the node's rendered translation in world units.
	NodeTransform(id NodeID) (geom.Point, bool)
	// SetNodeTransform moves the rendered node. It reports false when the
	// node does not exist.
	SetNodeTransform(id NodeID, pos geom.Point) bool
	// NodeScreenBox returns the node's current on-screen bounding box.
	NodeScreenBox(id NodeID) (geom.Rect, bool)
	// SetNodeSelected toggles the node's "selected" marker.
	SetNodeSelected(id NodeID, selected bool) bool
}

// PinSurface exposes pin hitboxes.
type PinSurface interface {
	// Pins returns the pins of a node.
	Pins(node NodeID) []PinRef
	// PinScreenBox returns the on-screen hitbox of a pin.
	PinScreenBox(ref PinRef) (geom.Rect, bool)
}

// WireSurface exposes rendered wires.
type WireSurface interface {
	WireIDs() []WireID
	Wire(id WireID) (Wire, bool)
	// WirePath returns the rendered path for arc-length sampling. It reports
	// false when the wire is absent or has not been drawn yet.
	WirePath(id WireID) (wire.Sampler, bool)
	// SetWirePath sets the wire's path description.
	SetWirePath(id WireID, d string) bool
	SetWireSelected(id WireID, selected bool) bool
}

// Chrome is the editor furniture drawn around the graph. Each setter returns
// an error matching ErrStructuralAbsence when its element is missing.
type Chrome interface {
	// Bounds returns the canvas container rectangle in screen space.
	Bounds() (geom.Rect, error)
	SetViewportTransform(t geom.Transform) error
	SetViewBox(r geom.Rect) error
	// SetSelectionBox shows or hides the rubber band rectangle (screen space).
	SetSelectionBox(r geom.Rect, visible bool) error
	// SetTempWire shows or hides the wire being drawn.
	SetTempWire(d string, visible bool) error
}

// Surface is the full rendering surface contract consumed by the editor.
type Surface interface {
	NodeSurface
	PinSurface
	WireSurface
	Chrome
}

// SpatialIndex is implemented by surfaces that can answer rectangle queries
// without scanning every node.
type SpatialIndex interface {
	NodesInWorldRect(r geom.Rect) []NodeID
}
