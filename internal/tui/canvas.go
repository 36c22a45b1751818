package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/grid"
	"github.com/igloo/penguin/pkg/scene"
	"github.com/igloo/penguin/pkg/wire"
)

// Canvas pixels per terminal cell. Cells are roughly twice as tall as wide.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// maxGridLines bounds the grid dots drawn per axis.
const maxGridLines = 400

type class uint8

const (
	clsBlank class = iota
	clsGrid
	clsWire
	clsWireSelected
	clsTempWire
	clsNode
	clsNodeSelected
	clsPin
	clsSelectionBox
)

var classStyles = map[class]lipgloss.Style{
	clsGrid:         lipgloss.NewStyle().Foreground(colorDim),
	clsWire:         lipgloss.NewStyle().Foreground(colorGray),
	clsWireSelected: lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
	clsTempWire:     lipgloss.NewStyle().Foreground(colorYellow),
	clsNode:         lipgloss.NewStyle().Foreground(colorWhite),
	clsNodeSelected: lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
	clsPin:          lipgloss.NewStyle().Foreground(colorGreen),
	clsSelectionBox: lipgloss.NewStyle().Foreground(colorBlue),
}

type cell struct {
	r rune
	c class
}

// canvas is a grid of styled runes.
type canvas struct {
	cols, rows int
	cells      []cell
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	c := &canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, cl class) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y*c.cols+x] = cell{r: r, c: cl}
}

func (c *canvas) at(x, y int) cell {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return cell{}
	}
	return c.cells[y*c.cols+x]
}

// CellAt returns the cell containing a canvas pixel.
func CellAt(p geom.Point) (x, y int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// PixelAt returns the canvas pixel at the center of a cell.
func PixelAt(x, y int) geom.Point {
	return geom.Pt((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)
}

func (c *canvas) plot(p geom.Point, r rune, cl class) {
	x, y := CellAt(p)
	c.set(x, y, r, cl)
}

func (c *canvas) text(x, y int, s string, cl class) {
	for _, r := range s {
		c.set(x, y, r, cl)
		x++
	}
}

// Plain returns the canvas without styling, one line per row.
func (c *canvas) Plain() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.cols; x++ {
			b.WriteRune(c.at(x, y).r)
		}
	}
	return b.String()
}

// Render returns the canvas with runs of equal class styled together.
func (c *canvas) Render() string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		cur := clsBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := classStyles[cur]; ok {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.cols; x++ {
			ce := c.at(x, y)
			if ce.c != cur {
				flush()
				cur = ce.c
			}
			run.WriteRune(ce.r)
		}
		flush()
	}
	return b.String()
}

// draw rasterizes a frame. Later layers cover earlier ones: grid, wires,
// nodes, pins, then the temp wire and selection box on top.
func (c *canvas) draw(f scene.Frame, g grid.Settings) {
	view := f.View
	if view.Zoom <= 0 {
		view.Zoom = 1
	}
	if g.Enabled {
		c.drawGrid(f.ViewBox, view, g.Size)
	}
	for _, w := range f.Wires {
		cl := clsWire
		if w.Selected {
			cl = clsWireSelected
		}
		c.drawPath(w.Path, view, '·', cl)
	}
	for _, n := range f.Nodes {
		c.drawNode(n, view)
	}
	if f.TempWire != "" {
		c.drawPath(f.TempWire, view, '•', clsTempWire)
	}
	if f.Selection != nil {
		c.drawRect(*f.Selection, clsSelectionBox, '┄', '┆', '┌', '┐', '└', '┘')
	}
}

func (c *canvas) drawGrid(visible geom.Rect, view geom.Transform, size float64) {
	xs, ys := grid.Lines(visible, size, maxGridLines)
	for _, y := range ys {
		for _, x := range xs {
			c.plot(view.WorldToScreen(geom.Pt(x, y)), '·', clsGrid)
		}
	}
}

// drawPath samples a world-space wire path every half cell on screen.
func (c *canvas) drawPath(d string, view geom.Transform, r rune, cl class) {
	curve, err := wire.ParsePath(d)
	if err != nil {
		return
	}
	arc := wire.NewArc(curve)
	step := (CellWidth / 2) / view.Zoom
	total := arc.TotalLength()
	for s := 0.0; s <= total; s += step {
		c.plot(view.WorldToScreen(arc.PointAtLength(s)), r, cl)
	}
	c.plot(view.WorldToScreen(arc.PointAtLength(total)), r, cl)
}

func (c *canvas) drawNode(n scene.NodeFrame, view geom.Transform) {
	cl := clsNode
	if n.Selected {
		cl = clsNodeSelected
	}
	screen := view.WorldRectToScreen(n.Box)
	x0, y0, x1, y1 := c.drawRect(screen, cl, '─', '│', '╭', '╮', '╰', '╯')
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			c.set(x, y, ' ', cl)
		}
	}

	label := n.Label
	if label == "" {
		label = string(n.ID)
	}
	inner := x1 - x0 - 1
	if inner > 0 {
		runes := []rune(label)
		if len(runes) > inner {
			runes = runes[:inner]
		}
		c.text(x0+1+(inner-len(runes))/2, (y0+y1)/2, string(runes), cl)
	}

	for _, p := range n.Pins {
		r := '○'
		if p.IsOutput {
			r = '●'
		}
		c.plot(view.WorldToScreen(p.Center), r, clsPin)
	}
}

// drawRect outlines a screen rectangle and returns its cell corners.
func (c *canvas) drawRect(r geom.Rect, cl class, h, v, tl, tr, bl, br rune) (x0, y0, x1, y1 int) {
	x0, y0 = CellAt(r.Min)
	x1, y1 = CellAt(r.Max)
	x1, y1 = max(x1, x0+1), max(y1, y0+1)
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, h, cl)
		c.set(x, y1, h, cl)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, v, cl)
		c.set(x1, y, v, cl)
	}
	c.set(x0, y0, tl, cl)
	c.set(x1, y0, tr, cl)
	c.set(x0, y1, bl, cl)
	c.set(x1, y1, br, cl)
	return x0, y0, x1, y1
}
