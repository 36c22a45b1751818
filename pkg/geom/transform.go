package geom

import "math"

// Zoom limits. Every Transform produced by this package keeps Zoom in range.
const (
	MinZoom = 0.1
	MaxZoom = 3.0
)

// Transform maps between screen and world coordinates.
//
// Origin is the top-left corner of the canvas container in screen space, Pan
// is the container-relative screen offset of the world origin and Zoom is the
// number of screen pixels per world unit.
type Transform struct {
	Origin Point   `json:"origin"`
	Pan    Point   `json:"pan"`
	Zoom   float64 `json:"zoom"`
}

// Identity returns a transform with no pan and a zoom of 1.
func Identity() Transform { return Transform{Zoom: 1} }

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// ScreenToWorld converts a screen point to world space.
func (t Transform) ScreenToWorld(p Point) Point {
	return p.Sub(t.Origin).Sub(t.Pan).Div(t.Zoom)
}

// WorldToScreen converts a world point to screen space.
func (t Transform) WorldToScreen(p Point) Point {
	return p.Mul(t.Zoom).Add(t.Pan).Add(t.Origin)
}

// ScreenRectToWorld converts a screen rectangle to world space.
func (t Transform) ScreenRectToWorld(r Rect) Rect {
	return RectFromPoints(t.ScreenToWorld(r.Min), t.ScreenToWorld(r.Max))
}

// WorldRectToScreen converts a world rectangle to screen space.
func (t Transform) WorldRectToScreen(r Rect) Rect {
	return RectFromPoints(t.WorldToScreen(r.Min), t.WorldToScreen(r.Max))
}

// ZoomAt returns the transform zoomed to newZoom around the screen point
// cursor. The world point under cursor is the same before and after.
func (t Transform) ZoomAt(cursor Point, newZoom float64) Transform {
	newZoom = ClampZoom(newZoom)
	m := cursor.Sub(t.Origin)
	r := newZoom / t.Zoom
	t.Pan = m.Sub(m.Sub(t.Pan).Mul(r))
	t.Zoom = newZoom
	return t
}

// ViewBox returns the world rectangle visible through a container of size s.
func (t Transform) ViewBox(s Size) Rect {
	topLeft := t.Pan.Mul(-1).Div(t.Zoom)
	return RectFromSize(topLeft, Size{s.W / t.Zoom, s.H / t.Zoom})
}
