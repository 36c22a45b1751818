package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("36")  // selection
	colorGreen  = lipgloss.Color("35")  // pins
	colorYellow = lipgloss.Color("220") // wire being drawn
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // selection box
	colorWhite  = lipgloss.Color("255") // nodes
	colorGray   = lipgloss.Color("245") // wires
	colorDim    = lipgloss.Color("240") // grid
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleStatus = lipgloss.NewStyle().Foreground(colorGray)
	styleOn     = lipgloss.NewStyle().Foreground(colorGreen)
	styleOff    = lipgloss.NewStyle().Foreground(colorDim)
	styleError  = lipgloss.NewStyle().Foreground(colorRed)
)
