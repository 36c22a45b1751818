package selection

import (
	"testing"

	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
)

func newScene(t *testing.T) (*scene.Memory, scene.Query) {
	t.Helper()
	m := scene.NewMemory(geom.Rect{Max: geom.Pt(1000, 1000)})
	size := geom.Size{W: 50, H: 50}
	pins := scene.LayoutPins(size, []scene.PinID{"in"}, []scene.PinID{"out"})
	for i, id := range []scene.NodeID{"a", "b", "c", "far"} {
		pos := geom.Pt(float64(i)*100, 0)
		if id == "far" {
			pos = geom.Pt(800, 800)
		}
		if err := m.AddNode(scene.NodeSpec{ID: id, Pos: pos, Size: size, Pins: pins}); err != nil {
			t.Fatal(err)
		}
	}
	view := geom.Identity()
	return m, scene.NewAdapter(m, func() geom.Transform { return view }, nil)
}

func TestBoxSelectsNodesAndTouchedWire(t *testing.T) {
	m, q := newScene(t)
	// A wire leaving c's output pin, which sits inside the box.
	w, err := m.Connect(scene.PinRef{Node: "c", Pin: "out", IsOutput: true}, scene.PinRef{Node: "far", Pin: "in"})
	if err != nil {
		t.Fatal(err)
	}
	m.SetWirePath(w.ID, "M 250 25 C 500 25, 700 825, 800 825")

	sel := New(m, nil)
	sel.ApplyBox(geom.Rect{Min: geom.Pt(-10, -10), Max: geom.Pt(260, 60)}, false, q, geom.Identity())

	got := sel.Nodes()
	want := []scene.NodeID{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("nodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("nodes = %v, want %v", got, want)
		}
	}
	// The wire starts at c's output pin (250, 25), inside the box.
	if wires := sel.Wires(); len(wires) != 1 {
		t.Errorf("wires = %v, want the c->far wire", wires)
	}
}

func TestBoxSelectsThreeNodesNoWires(t *testing.T) {
	m, q := newScene(t)
	w, _ := m.Connect(scene.PinRef{Node: "far", Pin: "out", IsOutput: true}, scene.PinRef{Node: "a", Pin: "in"})
	m.SetWirePath(w.ID, "M 850 825 C 950 825, 900 600, 1000 600")

	sel := New(m, nil)
	sel.ApplyBox(geom.Rect{Min: geom.Pt(-10, -10), Max: geom.Pt(260, 60)}, false, q, geom.Identity())
	if len(sel.Nodes()) != 3 || len(sel.Wires()) != 0 {
		t.Errorf("nodes = %v wires = %v, want 3 nodes and 0 wires", sel.Nodes(), sel.Wires())
	}
}

func TestExclusiveClearsAdditiveGrows(t *testing.T) {
	m, _ := newScene(t)
	sel := New(m, nil)

	sel.SelectNode("a", false)
	sel.SelectNode("b", true)
	if got := sel.Nodes(); len(got) != 2 {
		t.Fatalf("additive: %v", got)
	}
	sel.SelectNode("c", false)
	if got := sel.Nodes(); len(got) != 1 || got[0] != "c" {
		t.Fatalf("exclusive: %v", got)
	}
	if got := m.SelectedNodes(); len(got) != 1 || got[0] != "c" {
		t.Errorf("surface markers = %v, want [c]", got)
	}
}

func TestMissingIDsAreSkipped(t *testing.T) {
	m, _ := newScene(t)
	sel := New(m, nil)
	sel.SelectNode("a", false)
	if sel.SelectNode("ghost", true) {
		t.Error("SelectNode(ghost) reported success")
	}
	if sel.SelectWire("ghost", true) {
		t.Error("SelectWire(ghost) reported success")
	}
	if got := sel.Nodes(); len(got) != 1 || got[0] != "a" {
		t.Errorf("nodes = %v, want [a]", got)
	}
}

func TestSelectWireExclusive(t *testing.T) {
	m, _ := newScene(t)
	w, _ := m.Connect(scene.PinRef{Node: "a", Pin: "out", IsOutput: true}, scene.PinRef{Node: "b", Pin: "in"})
	sel := New(m, nil)
	sel.SelectNode("a", false)
	sel.SelectWire(w.ID, false)
	if len(sel.Nodes()) != 0 || len(sel.Wires()) != 1 {
		t.Errorf("nodes = %v wires = %v", sel.Nodes(), sel.Wires())
	}
	sel.ClearAll()
	if !sel.Empty() {
		t.Error("ClearAll left a selection")
	}
}

func TestRetain(t *testing.T) {
	m, _ := newScene(t)
	sel := New(m, nil)
	sel.SelectNode("a", true)
	sel.SelectNode("b", true)
	if err := m.RemoveNode("b"); err != nil {
		t.Fatal(err)
	}
	sel.Retain(m.NodeIDs(), m.WireIDs())
	if got := sel.Nodes(); len(got) != 1 || got[0] != "a" {
		t.Errorf("nodes = %v, want [a]", got)
	}
}
