package scene

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/wire"
)

// Query answers the geometry questions the editor asks about a scene.
type Query interface {
	// NodeWorldPosition returns the node's translation in world units.
	NodeWorldPosition(id NodeID) (geom.Point, error)
	// PinWorldPosition returns the center of a pin in world units.
	PinWorldPosition(ref PinRef) (geom.Point, error)
	// NodesIntersecting returns the nodes whose screen box overlaps r.
	NodesIntersecting(screen geom.Rect) []NodeID
	// WireIntersecting reports whether any arc-length sample of the wire
	// lies inside the world rectangle.
	WireIntersecting(id WireID, world geom.Rect) bool
	// NodeAt returns the topmost node under a screen point.
	NodeAt(screen geom.Point) (NodeID, bool)
	// PinAt returns the topmost pin whose hitbox contains a screen point.
	PinAt(screen geom.Point) (PinRef, bool)
	// WireAt returns the topmost wire passing within tolerance screen pixels
	// of a screen point.
	WireAt(screen geom.Point, tolerance float64) (WireID, bool)
}

// Adapter implements Query over a Surface using the caller's view transform.
type Adapter struct {
	surface  Surface
	view     func() geom.Transform
	logger   *log.Logger
	interval float64
}

// NewAdapter returns an Adapter. view is called on every query that needs the
// current screen/world mapping. A nil logger discards warnings.
func NewAdapter(s Surface, view func() geom.Transform, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{surface: s, view: view, logger: logger, interval: wire.SampleInterval}
}

// SetSampleInterval changes the arc-length step used by WireIntersecting.
func (a *Adapter) SetSampleInterval(v float64) {
	if v > 0 {
		a.interval = v
	}
}

func (a *Adapter) NodeWorldPosition(id NodeID) (geom.Point, error) {
	p, ok := a.surface.NodeTransform(id)
	if !ok {
		return geom.Point{}, nodeNotFound(id)
	}
	return p, nil
}

// PinWorldPosition measures the pin relative to its node on screen and
// converts the offset back to world units, so it is correct for any zoom.
func (a *Adapter) PinWorldPosition(ref PinRef) (geom.Point, error) {
	pos, ok := a.surface.NodeTransform(ref.Node)
	if !ok {
		return geom.Point{}, nodeNotFound(ref.Node)
	}
	nodeBox, ok := a.surface.NodeScreenBox(ref.Node)
	if !ok {
		return geom.Point{}, nodeNotFound(ref.Node)
	}
	pinBox, ok := a.surface.PinScreenBox(ref)
	if !ok {
		return geom.Point{}, pinNotFound(ref)
	}
	offset := pinBox.Center().Sub(nodeBox.Min).Div(safeZoom(a.view()))
	return pos.Add(offset), nil
}

func (a *Adapter) NodesIntersecting(screen geom.Rect) []NodeID {
	if idx, ok := a.surface.(SpatialIndex); ok {
		return idx.NodesInWorldRect(a.view().ScreenRectToWorld(screen))
	}
	var out []NodeID
	for _, id := range a.surface.NodeIDs() {
		box, ok := a.surface.NodeScreenBox(id)
		if !ok {
			a.logger.Warn("node vanished during box query", "node", id)
			continue
		}
		if box.Intersects(screen) {
			out = append(out, id)
		}
	}
	return out
}

func (a *Adapter) WireIntersecting(id WireID, world geom.Rect) bool {
	path, ok := a.surface.WirePath(id)
	if !ok {
		return false
	}
	return wire.Intersects(path, world, a.interval)
}

func (a *Adapter) NodeAt(screen geom.Point) (NodeID, bool) {
	ids := a.surface.NodeIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if box, ok := a.surface.NodeScreenBox(ids[i]); ok && box.Contains(screen) {
			return ids[i], true
		}
	}
	return "", false
}

func (a *Adapter) PinAt(screen geom.Point) (PinRef, bool) {
	ids := a.surface.NodeIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		for _, ref := range a.surface.Pins(ids[i]) {
			if box, ok := a.surface.PinScreenBox(ref); ok && box.Contains(screen) {
				return ref, true
			}
		}
	}
	return PinRef{}, false
}

func (a *Adapter) WireAt(screen geom.Point, tolerance float64) (WireID, bool) {
	view := a.view()
	world := geom.RectAround(view.ScreenToWorld(screen), tolerance/safeZoom(view))
	ids := a.surface.WireIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if a.WireIntersecting(ids[i], world) {
			return ids[i], true
		}
	}
	return "", false
}
