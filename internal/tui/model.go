package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
	"github.com/igloo/penguin/pkg/session"
)

// footerRows is the status line plus the help line.
const footerRows = 2

// Options configures the editor.
type Options struct {
	Title     string      // shown in the status line
	Keys      *KeyMap     // default: DefaultKeyMap
	Logger    *log.Logger // receives edit actions; nil discards
	Scheduler *Scheduler  // repaints after delayed renders when set
}

// Model is the bubbletea model of the terminal editor.
type Model struct {
	sess   *session.Session
	keys   KeyMap
	help   help.Model
	title  string
	logger *log.Logger

	width, height int
	status        string
	err           error
	quitting      bool
}

// New creates an editor over an open session.
func New(sess *session.Session, opts Options) Model {
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	title := opts.Title
	if title == "" {
		title = "penguin"
	}
	return Model{
		sess:   sess,
		keys:   keys,
		help:   help.New(),
		title:  title,
		logger: opts.Logger,
	}
}

// Run starts the editor full screen and blocks until it quits or ctx ends.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	p := tea.NewProgram(New(sess, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if opts.Scheduler != nil {
		unbind := opts.Scheduler.bind(p.Send)
		defer unbind()
	}
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case settledMsg:
		// The returned model is redrawn from the settled frame.
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	rows := max(h-footerRows, 1)
	m.sess.Scene.SetBounds(geom.Rect{Max: geom.Pt(float64(w)*CellWidth, float64(rows)*CellHeight)})
	m.sess.Editor.Rerender()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.sess.Editor
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Clear):
		ed.Dispatch(editor.KeyDown{Key: editor.KeyEscape})
		m.status = "selection cleared"
	case key.Matches(msg, m.keys.Delete):
		nodes, wires := m.sess.DeleteSelection()
		m.status = fmt.Sprintf("deleted %d nodes, %d wires", nodes, wires)
		m.log("delete selection", "nodes", nodes, "wires", wires)
	case key.Matches(msg, m.keys.AddNode):
		m.addNode()
	case key.Matches(msg, m.keys.Grid):
		g := ed.GridSettings()
		m.err = ed.SetGridSettings(!g.Enabled, g.Snap, g.Size)
		m.status = "grid " + onOff(!g.Enabled)
	case key.Matches(msg, m.keys.Snap):
		g := ed.GridSettings()
		m.err = ed.SetGridSettings(g.Enabled, !g.Snap, g.Size)
		m.status = "snap " + onOff(!g.Snap)
	case key.Matches(msg, m.keys.ZoomIn):
		ed.Dispatch(editor.Wheel{Pos: m.center(), DeltaY: -1})
	case key.Matches(msg, m.keys.ZoomOut):
		ed.Dispatch(editor.Wheel{Pos: m.center(), DeltaY: 1})
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	pos := PixelAt(msg.X, msg.Y)
	ed := m.sess.Editor
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			ed.Dispatch(editor.Wheel{Pos: pos, DeltaY: -1})
		case tea.MouseButtonWheelDown:
			ed.Dispatch(editor.Wheel{Pos: pos, DeltaY: 1})
		default:
			var mods editor.Modifiers
			if msg.Shift {
				mods |= editor.ModShift
			}
			if msg.Ctrl {
				mods |= editor.ModCtrl
			}
			if msg.Alt {
				mods |= editor.ModAlt
			}
			ed.Dispatch(editor.PointerDown{Pos: pos, Button: button(msg.Button), Mods: mods})
		}
	case tea.MouseActionMotion:
		ed.Dispatch(editor.PointerMove{Pos: pos})
	case tea.MouseActionRelease:
		ed.Dispatch(editor.PointerUp{Pos: pos, Button: button(msg.Button)})
	}
}

func button(b tea.MouseButton) editor.Button {
	switch b {
	case tea.MouseButtonMiddle:
		return editor.ButtonMiddle
	case tea.MouseButtonRight:
		return editor.ButtonSecondary
	}
	return editor.ButtonPrimary
}

// addNode places a node with one input and one output at the view center.
func (m *Model) addNode() {
	id := m.sess.Scene.NextNodeID()
	world := m.sess.Editor.View().ScreenToWorld(m.center())
	size := scene.DefaultNodeSize
	pos := m.sess.Editor.GridSettings().Apply(world.Sub(geom.Pt(size.W/2, size.H/2)))
	err := m.sess.Scene.AddNode(scene.NodeSpec{
		ID:   id,
		Pos:  pos,
		Size: size,
		Pins: scene.LayoutPins(size, []scene.PinID{"in"}, []scene.PinID{"out"}),
	})
	if err != nil {
		m.err = err
		return
	}
	m.sess.Editor.Rerender()
	m.status = "added " + string(id)
	m.log("add node", "node", id, "x", pos.X, "y", pos.Y)
}

func (m Model) center() geom.Point {
	rows := max(m.height-footerRows, 1)
	return geom.Pt(float64(m.width)*CellWidth/2, float64(rows)*CellHeight/2)
}

func (m Model) log(msg string, kv ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, kv...)
	}
}

func (m Model) View() string {
	if m.quitting || m.width == 0 {
		return ""
	}
	rows := max(m.height-footerRows, 1)
	c := newCanvas(m.width, rows)
	c.draw(m.sess.Scene.Frame(), m.sess.Editor.GridSettings())

	var b strings.Builder
	b.WriteString(c.Render())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	snap := m.sess.Editor.Snapshot()
	parts := []string{
		styleTitle.Render(m.title),
		styleStatus.Render(snap.Mode),
		styleStatus.Render(fmt.Sprintf("zoom %.0f%%", snap.Zoom*100)),
		"grid " + onOffStyled(snap.Grid.Enabled),
		"snap " + onOffStyled(snap.Grid.Snap),
		styleStatus.Render(fmt.Sprintf("%d nodes, %d wires selected", len(snap.SelectedNodes), len(snap.SelectedWires))),
	}
	switch {
	case m.err != nil:
		parts = append(parts, styleError.Render(m.err.Error()))
	case m.status != "":
		parts = append(parts, styleStatus.Render(m.status))
	}
	return strings.Join(parts, styleOff.Render(" · "))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func onOffStyled(v bool) string {
	if v {
		return styleOn.Render("on")
	}
	return styleOff.Render("off")
}
