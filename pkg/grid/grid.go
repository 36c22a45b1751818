// Package grid quantizes world coordinates to a square grid.
//
// Snapping is a discrete commit step: the editor applies it once when a drag
// finishes, never on intermediate drag frames, so dragging always follows the
// raw pointer delta.
package grid

import (
	"math"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
)

// DefaultSize is the grid cell size in world units.
const DefaultSize = 20.0

// Settings controls grid display and drag snapping.
type Settings struct {
	Enabled bool    `toml:"enabled" json:"enabled"` // draw grid lines
	Snap    bool    `toml:"snap" json:"snap"`       // snap dragged nodes on release
	Size    float64 `toml:"size" json:"size"`       // cell size in world units, > 0
}

// Default returns a hidden, non-snapping grid with DefaultSize cells.
func Default() Settings {
	return Settings{Size: DefaultSize}
}

// Validate checks that the cell size is usable.
func (s Settings) Validate() error {
	return errors.ValidateGridSize(s.Size)
}

// Apply snaps p when snapping is turned on, and returns p unchanged otherwise.
func (s Settings) Apply(p geom.Point) geom.Point {
	if !s.Snap || s.Size <= 0 {
		return p
	}
	return Snap(p, s.Size)
}

// Snap rounds each axis of p to the nearest multiple of size.
// Snap is idempotent: Snap(Snap(p, g), g) == Snap(p, g).
func Snap(p geom.Point, size float64) geom.Point {
	return geom.Point{X: snap1(p.X, size), Y: snap1(p.Y, size)}
}

func snap1(v, size float64) float64 {
	// JS Math.round semantics: halves round towards +Inf.
	return math.Floor(v/size+0.5) * size
}

// Lines returns the world x and y coordinates of the grid lines crossing the
// visible world rectangle. It returns nil slices when size is not positive or
// when more than limit lines would be produced on either axis.
func Lines(visible geom.Rect, size float64, limit int) (xs, ys []float64) {
	if size <= 0 {
		return nil, nil
	}
	if visible.Width()/size > float64(limit) || visible.Height()/size > float64(limit) {
		return nil, nil
	}
	for x := math.Ceil(visible.Min.X/size) * size; x <= visible.Max.X; x += size {
		xs = append(xs, x)
	}
	for y := math.Ceil(visible.Min.Y/size) * size; y <= visible.Max.Y; y += size {
		ys = append(ys, y)
	}
	return xs, ys
}
