package wire

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
)

// MaxControlOffset caps the horizontal control point offset in world units.
const MaxControlOffset = 100.0

// Curve is a cubic Bézier from P0 to P3 with control points P1 and P2.
type Curve struct {
	P0, P1, P2, P3 geom.Point
}

// Route returns the horizontal-tangent wire curve from one endpoint to the
// other.
func Route(from, to geom.Point) Curve {
	off := math.Min(math.Abs(to.X-from.X)/2, MaxControlOffset)
	return Curve{
		P0: from,
		P1: geom.Point{X: from.X + off, Y: from.Y},
		P2: geom.Point{X: to.X - off, Y: to.Y},
		P3: to,
	}
}

// RouteTemp returns the curve of a wire being drawn from anchor towards the
// pointer. Wires always run output to input, so when the anchor is an input
// pin the pointer end becomes the start of the curve.
func RouteTemp(anchor, pointer geom.Point, anchorIsOutput bool) Curve {
	if anchorIsOutput {
		return Route(anchor, pointer)
	}
	return Route(pointer, anchor)
}

// At evaluates the curve at parameter t in [0, 1].
func (c Curve) At(t float64) geom.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return geom.Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// Bounds returns the bounding box of the control polygon, which contains the
// curve.
func (c Curve) Bounds() geom.Rect {
	return geom.RectFromPoints(c.P0, c.P1).
		Union(geom.RectFromPoints(c.P2, c.P3))
}

// Path returns the SVG path description of the curve.
func (c Curve) Path() string {
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		num(c.P0.X), num(c.P0.Y),
		num(c.P1.X), num(c.P1.Y),
		num(c.P2.X), num(c.P2.Y),
		num(c.P3.X), num(c.P3.Y))
}

// num formats like JavaScript number-to-string for the values we emit:
// shortest representation, no exponent for ordinary magnitudes.
func num(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParsePath parses a path produced by [Curve.Path]. Commas are treated as
// whitespace.
func ParsePath(d string) (Curve, error) {
	fields := strings.Fields(strings.ReplaceAll(d, ",", " "))
	if len(fields) != 10 || fields[0] != "M" || fields[3] != "C" {
		return Curve{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported path %q", d)
	}
	var v [8]float64
	for i, f := range append(fields[1:3:3], fields[4:]...) {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Curve{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "path %q", d)
		}
		v[i] = x
	}
	return Curve{
		P0: geom.Pt(v[0], v[1]),
		P1: geom.Pt(v[2], v[3]),
		P2: geom.Pt(v[4], v[5]),
		P3: geom.Pt(v[6], v[7]),
	}, nil
}
