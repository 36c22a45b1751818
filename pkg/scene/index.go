package scene

import (
	"math"

	"github.com/igloo/penguin/pkg/geom"
)

// DefaultCellSize is the side of a spatial hash cell in world units.
const DefaultCellSize = 256.0

// maxScanCells bounds the number of cells a query visits before the index
// gives up and reports every member.
const maxScanCells = 4096

type cell struct{ x, y int }

// hashGrid is a uniform spatial hash of node boxes. It only narrows the
// candidate set; callers do the exact intersection test. Boxes covering more
// than maxScanCells cells are kept in oversize and match every query.
type hashGrid struct {
	size     float64
	cells    map[cell]map[NodeID]struct{}
	spans    map[NodeID][]cell
	oversize map[NodeID]struct{}
}

func newHashGrid(size float64) *hashGrid {
	if size <= 0 {
		size = DefaultCellSize
	}
	return &hashGrid{
		size:     size,
		cells:    make(map[cell]map[NodeID]struct{}),
		spans:    make(map[NodeID][]cell),
		oversize: make(map[NodeID]struct{}),
	}
}

func (g *hashGrid) cellRange(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.Min.X / g.size))
	y0 = int(math.Floor(r.Min.Y / g.size))
	x1 = int(math.Floor(r.Max.X / g.size))
	y1 = int(math.Floor(r.Max.Y / g.size))
	return
}

// tooWide reports whether the cell range of r exceeds maxScanCells. The
// product is taken in floating point so huge boxes cannot overflow.
func (g *hashGrid) tooWide(r geom.Rect) bool {
	w := math.Floor(r.Max.X/g.size) - math.Floor(r.Min.X/g.size) + 1
	h := math.Floor(r.Max.Y/g.size) - math.Floor(r.Min.Y/g.size) + 1
	return !(w*h <= maxScanCells)
}

func (g *hashGrid) insert(id NodeID, box geom.Rect) {
	g.remove(id)
	if g.tooWide(box) {
		g.oversize[id] = struct{}{}
		return
	}
	x0, y0, x1, y1 := g.cellRange(box)
	var span []cell
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			c := cell{x, y}
			set, ok := g.cells[c]
			if !ok {
				set = make(map[NodeID]struct{})
				g.cells[c] = set
			}
			set[id] = struct{}{}
			span = append(span, c)
		}
	}
	g.spans[id] = span
}

func (g *hashGrid) remove(id NodeID) {
	for _, c := range g.spans[id] {
		set := g.cells[c]
		delete(set, id)
		if len(set) == 0 {
			delete(g.cells, c)
		}
	}
	delete(g.spans, id)
	delete(g.oversize, id)
}

// candidates returns the ids that may overlap r. all is true when the query
// was too large to walk cell by cell and every member is returned.
func (g *hashGrid) candidates(r geom.Rect) (ids map[NodeID]struct{}, all bool) {
	if g.tooWide(r) {
		ids = make(map[NodeID]struct{}, len(g.spans)+len(g.oversize))
		for id := range g.spans {
			ids[id] = struct{}{}
		}
		for id := range g.oversize {
			ids[id] = struct{}{}
		}
		return ids, true
	}
	x0, y0, x1, y1 := g.cellRange(r)
	ids = make(map[NodeID]struct{}, len(g.oversize))
	for id := range g.oversize {
		ids[id] = struct{}{}
	}
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for id := range g.cells[cell{x, y}] {
				ids[id] = struct{}{}
			}
		}
	}
	return ids, false
}
