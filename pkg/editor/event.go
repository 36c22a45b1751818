package editor

import (
	"strings"

	"github.com/igloo/penguin/pkg/geom"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Additive reports whether the modifiers request additive selection.
func (m Modifiers) Additive() bool { return m&(ModShift|ModCtrl) != 0 }

// ParseModifiers reads names such as "shift" or "ctrl"; unknown names are
// ignored.
func ParseModifiers(names []string) Modifiers {
	var m Modifiers
	for _, n := range names {
		switch strings.ToLower(n) {
		case "shift":
			m |= ModShift
		case "ctrl", "control":
			m |= ModCtrl
		case "alt", "option":
			m |= ModAlt
		case "meta", "cmd", "super":
			m |= ModMeta
		}
	}
	return m
}

// KeyEscape is the key name that clears the selection.
const KeyEscape = "Escape"

// Event is an input event. Positions are in screen space.
type Event interface {
	event()
}

// PointerDown is a button press.
type PointerDown struct {
	Pos    geom.Point
	Button Button
	Mods   Modifiers
}

// PointerMove is pointer motion. Dragging uses the distance from the previous
// pointer event; panning and box selection use the absolute position.
type PointerMove struct {
	Pos geom.Point
}

// PointerUp is a button release.
type PointerUp struct {
	Pos    geom.Point
	Button Button
}

// Wheel is a scroll. Negative DeltaY zooms in.
type Wheel struct {
	Pos    geom.Point
	DeltaY float64
}

// KeyDown is a key press, named like DOM KeyboardEvent.key.
type KeyDown struct {
	Key  string
	Mods Modifiers
}

func (PointerDown) event() {}
func (PointerMove) event() {}
func (PointerUp) event()   {}
func (Wheel) event()       {}
func (KeyDown) event()     {}
