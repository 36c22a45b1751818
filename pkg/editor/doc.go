// Package editor implements the interactive canvas editing session.
//
// A [Session] is constructed once per canvas. It owns the viewport (pan and
// zoom) and the current interaction [Mode], dispatches pointer, wheel and key
// [Event] values, and writes every visual consequence back to a
// [scene.Surface]: node translations, wire paths, selection markers, the
// rubber band rectangle and the temporary wire.
//
// # Modes
//
// Exactly one mode is active at a time:
//
//	Idle ──primary down, empty──▶ Panning
//	     ──primary down, node───▶ Dragging     (drags the whole node selection)
//	     ──primary down, pin────▶ Wiring
//	     ──secondary down, empty▶ BoxSelecting
//	     ──StartWiring──────────▶ Wiring
//	any  ──pointer up───────────▶ Idle
//
// Leaving a mode finalizes it before the next one starts: leaving Dragging
// snaps the dragged nodes when grid snapping is on, leaving BoxSelecting
// applies the box selection and hides the rectangle, leaving Wiring hides the
// temporary wire. Wheel and Escape work in every mode and never change it.
//
// # Rendering
//
// Every change to the layout (pan, zoom, drag, snap) renders synchronously
// and schedules one more render a short time later, so geometry that settles
// after a frame is picked up. Scheduled renders are coalesced, re-read the
// session state when they fire, and become no-ops once the session is
// detached.
//
// # Failure
//
// Nothing in a session is fatal. Missing nodes, pins and wires are logged and
// skipped, precondition violations are logged and ignored, and missing chrome
// elements skip their render step for that frame.
//
// # Concurrency
//
// All exported methods serialize on one mutex, including scheduled renders.
// Hooks and surfaces are called with that mutex held and must not call back
// into the session.
package editor
