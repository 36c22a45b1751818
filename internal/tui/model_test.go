package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/graph"
	"github.com/igloo/penguin/pkg/session"
)

func newModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	doc := graph.Document{Nodes: []graph.Node{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 400, Y: 0},
	}}
	sess, err := session.Open(doc, geom.Rect{Max: geom.Pt(640, 352)}, editor.Options{
		AfterFunc: func(time.Duration, func()) {},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := New(sess, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model), sess
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, action tea.MouseAction, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: b}
}

func TestResizeSetsBounds(t *testing.T) {
	_, sess := newModel(t)
	b, err := sess.Scene.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	// 80 columns, 22 canvas rows.
	if b.Max != geom.Pt(640, 352) {
		t.Errorf("bounds = %v", b)
	}
}

func TestMouseDrag(t *testing.T) {
	m, sess := newModel(t)
	send(m,
		mouse(2, 1, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(7, 1, tea.MouseActionMotion, tea.MouseButtonLeft),
		mouse(7, 1, tea.MouseActionRelease, tea.MouseButtonNone),
	)
	pos := sess.Editor.AllNodePositions()
	if pos[0].ID != "a" || pos[0].X != 40 || pos[0].Y != 0 {
		t.Errorf("a = %+v, want (40, 0)", pos[0])
	}
	if got := sess.Editor.SelectedNodeIDs(); len(got) != 1 || got[0] != "a" {
		t.Errorf("selected = %v", got)
	}
}

func TestWheelZoom(t *testing.T) {
	m, sess := newModel(t)
	send(m, mouse(10, 5, tea.MouseActionPress, tea.MouseButtonWheelUp))
	if z := sess.Editor.View().Zoom; z < 1.09 || z > 1.11 {
		t.Errorf("zoom = %g, want 1.1", z)
	}
}

func TestKeys(t *testing.T) {
	m, sess := newModel(t)

	m, _ = send(m, keyMsg("g"))
	if !sess.Editor.GridSettings().Enabled {
		t.Error("g should enable the grid")
	}
	m, _ = send(m, keyMsg("s"))
	if !sess.Editor.GridSettings().Snap {
		t.Error("s should enable snapping")
	}

	m, _ = send(m, keyMsg("a"))
	if len(sess.Scene.NodeIDs()) != 3 {
		t.Fatalf("a should add a node, have %v", sess.Scene.NodeIDs())
	}
	added, _ := sess.Scene.Node("n1")
	if len(added.Pins) != 2 {
		t.Errorf("added node pins = %+v", added.Pins)
	}

	// Select a and delete it.
	m, _ = send(m,
		mouse(2, 1, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(2, 1, tea.MouseActionRelease, tea.MouseButtonNone),
		keyMsg("x"),
	)
	if _, ok := sess.Scene.Node("a"); ok {
		t.Error("x should delete the selected node")
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(sess.Editor.SelectedNodeIDs()) != 0 {
		t.Error("esc should clear the selection")
	}

	_, cmd := send(m, keyMsg("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestView(t *testing.T) {
	m, _ := newModel(t)
	if m.View() == "" {
		t.Fatal("empty view")
	}
	if New(m.sess, Options{}).View() != "" {
		t.Error("view before the first resize should be empty")
	}
}

func TestSchedulerRepaintsAfterDelayedRender(t *testing.T) {
	s := &Scheduler{}
	msgs := make(chan tea.Msg, 1)
	unbind := s.bind(func(msg tea.Msg) { msgs <- msg })

	ran := make(chan struct{})
	s.AfterFunc(time.Millisecond, func() { close(ran) })
	select {
	case msg := <-msgs:
		select {
		case <-ran:
		default:
			t.Fatal("repaint requested before the render ran")
		}
		if _, ok := msg.(settledMsg); !ok {
			t.Errorf("got %T, want settledMsg", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no repaint after the delayed render")
	}

	unbind()
	done := make(chan struct{})
	s.AfterFunc(time.Millisecond, func() { close(done) })
	<-done
	select {
	case msg := <-msgs:
		t.Errorf("unbound scheduler sent %T", msg)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSettledMessageRedraws(t *testing.T) {
	m, _ := newModel(t)
	next, cmd := send(m, settledMsg{})
	if cmd != nil {
		t.Error("settled message should not schedule a command")
	}
	if next.View() == "" {
		t.Error("empty view after settle")
	}
}
