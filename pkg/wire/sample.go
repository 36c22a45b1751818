package wire

import (
	"math"
	"sort"

	"github.com/igloo/penguin/pkg/geom"
)

// SampleInterval is the arc-length distance between samples, in world units.
const SampleInterval = 5.0

// flattenSegments is the number of chords used to approximate a curve.
const flattenSegments = 64

// Sampler is a rendered path that supports arc-length sampling.
type Sampler interface {
	TotalLength() float64
	// PointAtLength returns the point at distance d along the path. Distances
	// outside [0, TotalLength] are clamped.
	PointAtLength(d float64) geom.Point
}

// Arc is an arc-length parameterization of a Curve, built from a polyline
// approximation. The zero value is not usable; use NewArc.
type Arc struct {
	pts []geom.Point
	cum []float64 // cumulative length at pts[i]
}

// NewArc flattens c for arc-length sampling.
func NewArc(c Curve) *Arc {
	a := &Arc{
		pts: make([]geom.Point, flattenSegments+1),
		cum: make([]float64, flattenSegments+1),
	}
	for i := 0; i <= flattenSegments; i++ {
		a.pts[i] = c.At(float64(i) / flattenSegments)
		if i > 0 {
			a.cum[i] = a.cum[i-1] + a.pts[i-1].Dist(a.pts[i])
		}
	}
	return a
}

// TotalLength returns the approximate length of the curve.
func (a *Arc) TotalLength() float64 {
	return a.cum[len(a.cum)-1]
}

// PointAtLength returns the point at distance d along the curve.
func (a *Arc) PointAtLength(d float64) geom.Point {
	total := a.TotalLength()
	if d <= 0 || total == 0 {
		return a.pts[0]
	}
	if d >= total {
		return a.pts[len(a.pts)-1]
	}
	i := sort.SearchFloat64s(a.cum, d)
	seg := a.cum[i] - a.cum[i-1]
	if seg == 0 {
		return a.pts[i]
	}
	t := (d - a.cum[i-1]) / seg
	p, q := a.pts[i-1], a.pts[i]
	return geom.Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Intersects reports whether any sample of the path, taken every interval
// units from the start (both ends included), lies inside r.
func Intersects(s Sampler, r geom.Rect, interval float64) bool {
	if interval <= 0 {
		interval = SampleInterval
	}
	n := int(math.Ceil(s.TotalLength() / interval))
	for i := 0; i <= n; i++ {
		if r.Contains(s.PointAtLength(float64(i) * interval)) {
			return true
		}
	}
	return false
}
