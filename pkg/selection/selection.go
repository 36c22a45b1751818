// Package selection owns the set of selected nodes and wires on a canvas.
//
// The Manager keeps two disjoint id sets and mirrors every change onto the
// rendering surface's "selected" markers. Ids the surface no longer knows are
// logged and dropped rather than treated as errors: scenes change while the
// user is interacting with them.
//
// Exclusive operations (additive=false) clear the whole selection first.
// Additive operations only ever grow it.
package selection

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
)

// Target is the part of a rendering surface the Manager writes to.
type Target interface {
	SetNodeSelected(id scene.NodeID, selected bool) bool
	SetWireSelected(id scene.WireID, selected bool) bool
	WireIDs() []scene.WireID
}

// Manager tracks the current selection. It is not safe for concurrent use;
// the editor session serializes access.
type Manager struct {
	target Target
	logger *log.Logger
	nodes  map[scene.NodeID]struct{}
	wires  map[scene.WireID]struct{}
}

// New returns an empty Manager writing markers to t.
func New(t Target, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		target: t,
		logger: logger,
		nodes:  make(map[scene.NodeID]struct{}),
		wires:  make(map[scene.WireID]struct{}),
	}
}

// SelectNode selects a node, clearing everything else unless additive. It
// reports whether the node exists.
func (m *Manager) SelectNode(id scene.NodeID, additive bool) bool {
	if !additive {
		m.ClearAll()
	}
	return m.addNode(id)
}

// SelectWire selects a wire, clearing everything else unless additive.
func (m *Manager) SelectWire(id scene.WireID, additive bool) bool {
	if !additive {
		m.ClearAll()
	}
	return m.addWire(id)
}

// ClearAll deselects everything.
func (m *Manager) ClearAll() {
	for id := range m.nodes {
		m.target.SetNodeSelected(id, false)
	}
	for id := range m.wires {
		m.target.SetWireSelected(id, false)
	}
	clear(m.nodes)
	clear(m.wires)
}

// ApplyBox selects every node whose box overlaps the screen rectangle and
// every wire with a sample inside it. Wires are tested in world space using
// view.
func (m *Manager) ApplyBox(screen geom.Rect, additive bool, q scene.Query, view geom.Transform) {
	if !additive {
		m.ClearAll()
	}
	for _, id := range q.NodesIntersecting(screen) {
		m.addNode(id)
	}
	world := view.ScreenRectToWorld(screen)
	for _, id := range m.target.WireIDs() {
		if q.WireIntersecting(id, world) {
			m.addWire(id)
		}
	}
}

// Retain drops ids that are not in the given live sets.
func (m *Manager) Retain(nodes []scene.NodeID, wires []scene.WireID) {
	liveNodes := make(map[scene.NodeID]bool, len(nodes))
	for _, id := range nodes {
		liveNodes[id] = true
	}
	for id := range m.nodes {
		if !liveNodes[id] {
			delete(m.nodes, id)
		}
	}
	liveWires := make(map[scene.WireID]bool, len(wires))
	for _, id := range wires {
		liveWires[id] = true
	}
	for id := range m.wires {
		if !liveWires[id] {
			delete(m.wires, id)
		}
	}
}

// Nodes returns the selected node ids, sorted.
func (m *Manager) Nodes() []scene.NodeID {
	out := make([]scene.NodeID, 0, len(m.nodes))
	for id := range m.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Wires returns the selected wire ids, sorted.
func (m *Manager) Wires() []scene.WireID {
	out := make([]scene.WireID, 0, len(m.wires))
	for id := range m.wires {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Empty reports whether nothing is selected.
func (m *Manager) Empty() bool { return len(m.nodes) == 0 && len(m.wires) == 0 }

func (m *Manager) addNode(id scene.NodeID) bool {
	if !m.target.SetNodeSelected(id, true) {
		m.logger.Warn("cannot select missing node", "node", id)
		return false
	}
	m.nodes[id] = struct{}{}
	return true
}

func (m *Manager) addWire(id scene.WireID) bool {
	if !m.target.SetWireSelected(id, true) {
		m.logger.Warn("cannot select missing wire", "wire", id)
		return false
	}
	m.wires[id] = struct{}{}
	return true
}
