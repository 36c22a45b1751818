// Package tui is the terminal canvas editor behind "penguin edit".
//
// Every terminal cell stands for a CellWidth x CellHeight block of canvas
// pixels. Mouse input is converted to pixel positions at the center of the
// cell and dispatched to the editor session unchanged, so dragging, panning,
// box selection, wiring and wheel zoom behave exactly as they do in the live
// service. The view redraws from the scene's frame after every message, and
// a [Scheduler] wakes the program when a delayed render settles.
package tui
