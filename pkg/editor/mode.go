package editor

import (
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
)

// Mode is the active interaction. The set of modes is closed: Idle, Panning,
// Dragging, BoxSelecting and Wiring.
type Mode interface {
	String() string
	mode()
}

// Idle waits for input.
type Idle struct{}

// Panning moves the viewport with the pointer.
type Panning struct {
	StartScreen geom.Point // pointer position at pointer-down
	StartPan    geom.Point // pan at pointer-down
}

// Dragging moves the selected nodes with the pointer.
type Dragging struct {
	Nodes []scene.NodeID // selection snapshot at pointer-down
	Delta geom.Point     // world distance moved so far
}

// BoxSelecting draws a rubber band rectangle.
type BoxSelecting struct {
	StartScreen geom.Point
	Current     geom.Point
}

// Wiring draws a temporary wire from a grabbed pin to the pointer.
type Wiring struct {
	Start   scene.PinRef
	Pointer geom.Point // world position of the free end
}

func (Idle) mode()         {}
func (Panning) mode()      {}
func (Dragging) mode()     {}
func (BoxSelecting) mode() {}
func (Wiring) mode()       {}

func (Idle) String() string         { return "idle" }
func (Panning) String() string      { return "panning" }
func (Dragging) String() string     { return "dragging" }
func (BoxSelecting) String() string { return "box_selecting" }
func (Wiring) String() string       { return "wiring" }

// Rect returns the box in screen space.
func (b BoxSelecting) Rect() geom.Rect { return geom.RectFromPoints(b.StartScreen, b.Current) }
