package scene

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/wire"
)

// PinRadius is the half-extent of a pin hitbox in world units.
const PinRadius = 6.0

// DefaultNodeSize is used when a node is added without a size.
var DefaultNodeSize = geom.Size{W: 120, H: 60}

// MaxNodeSide is the largest accepted node width or height in world units.
const MaxNodeSide = 1e6

// PinSpec describes a pin and where its center sits relative to the node's
// top-left corner, in world units.
type PinSpec struct {
	ID     PinID      `json:"id"`
	Output bool       `json:"output"`
	Offset geom.Point `json:"offset"`
}

// NodeSpec describes a node to place in a Memory surface.
type NodeSpec struct {
	ID    NodeID     `json:"id"`
	Label string     `json:"label,omitempty"`
	Pos   geom.Point `json:"pos"`
	Size  geom.Size  `json:"size"`
	Pins  []PinSpec  `json:"pins,omitempty"`
}

// LayoutPins spreads inputs down the left edge and outputs down the right
// edge of a node of the given size.
func LayoutPins(size geom.Size, inputs, outputs []PinID) []PinSpec {
	pins := make([]PinSpec, 0, len(inputs)+len(outputs))
	place := func(ids []PinID, x float64, output bool) {
		step := size.H / float64(len(ids)+1)
		for i, id := range ids {
			pins = append(pins, PinSpec{ID: id, Output: output, Offset: geom.Pt(x, step*float64(i+1))})
		}
	}
	place(inputs, 0, false)
	place(outputs, size.W, true)
	return pins
}

type memNode struct {
	spec     NodeSpec
	selected bool
}

func (n *memNode) box() geom.Rect { return geom.RectFromSize(n.spec.Pos, n.spec.Size) }

func (n *memNode) pin(ref PinRef) (PinSpec, bool) {
	for _, p := range n.spec.Pins {
		if p.ID == ref.Pin && p.Output == ref.IsOutput {
			return p, true
		}
	}
	return PinSpec{}, false
}

type memWire struct {
	wire     Wire
	path     string
	arc      *wire.Arc
	selected bool
}

// Memory is a retained, in-process Surface. Screen boxes are derived from
// the last viewport transform written to it, like a browser laying out the
// transformed viewport group.
type Memory struct {
	mu sync.RWMutex

	bounds geom.Rect
	view   geom.Transform

	nodes     map[NodeID]*memNode
	nodeOrder []NodeID
	wires     map[WireID]*memWire
	wireOrder []WireID
	index     *hashGrid
	nextWire  int

	viewBox     geom.Rect
	selBox      geom.Rect
	selVisible  bool
	tempWire    string
	tempVisible bool
}

// NewMemory returns an empty surface whose container occupies bounds.
func NewMemory(bounds geom.Rect) *Memory {
	return &Memory{
		bounds: bounds,
		view:   geom.Transform{Origin: bounds.Min, Zoom: 1},
		nodes:  make(map[NodeID]*memNode),
		wires:  make(map[WireID]*memWire),
		index:  newHashGrid(DefaultCellSize),
	}
}

// SetBounds resizes the container.
func (m *Memory) SetBounds(r geom.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bounds = r
}

// =============================================================================
// Scene editing
// =============================================================================

// AddNode places a node. The id must be valid and unused.
func (m *Memory) AddNode(spec NodeSpec) error {
	if err := errors.ValidateID("node", string(spec.ID)); err != nil {
		return err
	}
	if err := errors.ValidateFinite("node position", spec.Pos.X, spec.Pos.Y); err != nil {
		return err
	}
	if spec.Size.W <= 0 || spec.Size.H <= 0 {
		spec.Size = DefaultNodeSize
	}
	if spec.Size.W > MaxNodeSide || spec.Size.H > MaxNodeSide {
		return errors.New(errors.ErrCodeInvalidScene, "node %q is larger than %g units", spec.ID, MaxNodeSide)
	}
	seen := make(map[PinRef]bool, len(spec.Pins))
	for _, p := range spec.Pins {
		if err := errors.ValidateID("pin", string(p.ID)); err != nil {
			return err
		}
		ref := PinRef{Node: spec.ID, Pin: p.ID, IsOutput: p.Output}
		if seen[ref] {
			return errors.New(errors.ErrCodeInvalidScene, "node %q has duplicate pin %q", spec.ID, p.ID)
		}
		seen[ref] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[spec.ID]; ok {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate node %q", spec.ID)
	}
	n := &memNode{spec: spec}
	m.nodes[spec.ID] = n
	m.nodeOrder = append(m.nodeOrder, spec.ID)
	m.index.insert(spec.ID, n.box())
	return nil
}

// NextNodeID returns "n<k>" where k is one more than the largest numeric
// suffix among existing "n<k>" ids.
func (m *Memory) NextNodeID() NodeID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	highest := 0
	for id := range m.nodes {
		if k, err := strconv.Atoi(strings.TrimPrefix(string(id), "n")); err == nil && k > highest {
			highest = k
		}
	}
	return NodeID(fmt.Sprintf("n%d", highest+1))
}

// RemoveNode deletes a node and every wire attached to it.
func (m *Memory) RemoveNode(id NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[id]; !ok {
		return nodeNotFound(id)
	}
	delete(m.nodes, id)
	m.nodeOrder = removeID(m.nodeOrder, id)
	m.index.remove(id)
	for _, wid := range append([]WireID(nil), m.wireOrder...) {
		if m.wires[wid].wire.Touches(id) {
			m.dropWire(wid)
		}
	}
	return nil
}

// Connect joins two pins. The ends may be given in either order; the wire
// always runs output to input. Any wire already feeding the input pin is
// replaced.
func (m *Memory) Connect(a, b PinRef) (Wire, error) {
	if !a.CanConnect(b) {
		return Wire{}, errors.New(errors.ErrCodePrecondition, "pins %s/%s and %s/%s cannot be connected", a.Node, a.Pin, b.Node, b.Pin)
	}
	from, to := a, b
	if !from.IsOutput {
		from, to = b, a
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ref := range []PinRef{from, to} {
		n, ok := m.nodes[ref.Node]
		if !ok {
			return Wire{}, nodeNotFound(ref.Node)
		}
		if _, ok := n.pin(ref); !ok {
			return Wire{}, pinNotFound(ref)
		}
	}
	for _, wid := range append([]WireID(nil), m.wireOrder...) {
		if m.wires[wid].wire.To() == to {
			m.dropWire(wid)
		}
	}
	w := Wire{ID: m.newWireID(), FromNode: from.Node, FromPin: from.Pin, ToNode: to.Node, ToPin: to.Pin}
	m.wires[w.ID] = &memWire{wire: w}
	m.wireOrder = append(m.wireOrder, w.ID)
	return w, nil
}

// AddWire inserts a wire with a caller-chosen id, for loading saved scenes.
func (m *Memory) AddWire(w Wire) error {
	if err := errors.ValidateID("wire", string(w.ID)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wires[w.ID]; ok {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate wire %q", w.ID)
	}
	for _, ref := range []PinRef{w.From(), w.To()} {
		n, ok := m.nodes[ref.Node]
		if !ok {
			return nodeNotFound(ref.Node)
		}
		if _, ok := n.pin(ref); !ok {
			return pinNotFound(ref)
		}
	}
	m.wires[w.ID] = &memWire{wire: w}
	m.wireOrder = append(m.wireOrder, w.ID)
	return nil
}

// RemoveWire deletes a wire.
func (m *Memory) RemoveWire(id WireID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wires[id]; !ok {
		return wireNotFound(id)
	}
	m.dropWire(id)
	return nil
}

// RemovePinWires deletes every wire attached to a pin and returns how many
// were removed.
func (m *Memory) RemovePinWires(ref PinRef) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for _, wid := range append([]WireID(nil), m.wireOrder...) {
		w := m.wires[wid].wire
		if w.From() == ref || w.To() == ref {
			m.dropWire(wid)
			removed++
		}
	}
	return removed
}

func (m *Memory) dropWire(id WireID) {
	delete(m.wires, id)
	m.wireOrder = removeID(m.wireOrder, id)
}

func (m *Memory) newWireID() WireID {
	for {
		m.nextWire++
		id := WireID(fmt.Sprintf("w%d", m.nextWire))
		if _, taken := m.wires[id]; !taken {
			return id
		}
	}
}

func removeID[T comparable](s []T, v T) []T {
	for i, x := range s {
		if x == v {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

// Node returns the node's spec with its current position.
func (m *Memory) Node(id NodeID) (NodeSpec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return NodeSpec{}, false
	}
	return n.spec, true
}

// Nodes returns every node in draw order.
func (m *Memory) Nodes() []NodeSpec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]NodeSpec, len(m.nodeOrder))
	for i, id := range m.nodeOrder {
		out[i] = m.nodes[id].spec
	}
	return out
}

// Wires returns every wire in draw order.
func (m *Memory) Wires() []Wire {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Wire, len(m.wireOrder))
	for i, id := range m.wireOrder {
		out[i] = m.wires[id].wire
	}
	return out
}

// =============================================================================
// NodeSurface
// =============================================================================

func (m *Memory) NodeIDs() []NodeID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]NodeID(nil), m.nodeOrder...)
}

func (m *Memory) NodeTransform(id NodeID) (geom.Point, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return geom.Point{}, false
	}
	return n.spec.Pos, true
}

func (m *Memory) SetNodeTransform(id NodeID, pos geom.Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return false
	}
	n.spec.Pos = pos
	m.index.insert(id, n.box())
	return true
}

func (m *Memory) NodeScreenBox(id NodeID) (geom.Rect, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return geom.Rect{}, false
	}
	return m.view.WorldRectToScreen(n.box()), true
}

func (m *Memory) SetNodeSelected(id NodeID, selected bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if ok {
		n.selected = selected
	}
	return ok
}

// NodesInWorldRect implements SpatialIndex.
func (m *Memory) NodesInWorldRect(r geom.Rect) []NodeID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cands, _ := m.index.candidates(r)
	var out []NodeID
	for _, id := range m.nodeOrder {
		if _, ok := cands[id]; ok && m.nodes[id].box().Intersects(r) {
			out = append(out, id)
		}
	}
	return out
}

// =============================================================================
// PinSurface
// =============================================================================

func (m *Memory) Pins(node NodeID) []PinRef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[node]
	if !ok {
		return nil
	}
	out := make([]PinRef, len(n.spec.Pins))
	for i, p := range n.spec.Pins {
		out[i] = PinRef{Node: node, Pin: p.ID, IsOutput: p.Output}
	}
	return out
}

func (m *Memory) PinScreenBox(ref PinRef) (geom.Rect, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[ref.Node]
	if !ok {
		return geom.Rect{}, false
	}
	p, ok := n.pin(ref)
	if !ok {
		return geom.Rect{}, false
	}
	center := n.spec.Pos.Add(p.Offset)
	return m.view.WorldRectToScreen(geom.RectAround(center, PinRadius)), true
}

// =============================================================================
// WireSurface
// =============================================================================

func (m *Memory) WireIDs() []WireID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]WireID(nil), m.wireOrder...)
}

func (m *Memory) Wire(id WireID) (Wire, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wires[id]
	if !ok {
		return Wire{}, false
	}
	return w.wire, true
}

func (m *Memory) WirePath(id WireID) (wire.Sampler, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wires[id]
	if !ok || w.arc == nil {
		return nil, false
	}
	return w.arc, true
}

// SetWirePath stores d. Paths that are not a single cubic segment are kept
// for display but cannot be sampled.
func (m *Memory) SetWirePath(id WireID, d string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wires[id]
	if !ok {
		return false
	}
	if w.path == d && w.arc != nil {
		return true
	}
	w.path, w.arc = d, nil
	if c, err := wire.ParsePath(d); err == nil {
		w.arc = wire.NewArc(c)
	}
	return true
}

func (m *Memory) SetWireSelected(id WireID, selected bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wires[id]
	if ok {
		w.selected = selected
	}
	return ok
}

// =============================================================================
// Chrome
// =============================================================================

func (m *Memory) Bounds() (geom.Rect, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bounds, nil
}

func (m *Memory) SetViewportTransform(t geom.Transform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = t
	return nil
}

func (m *Memory) SetViewBox(r geom.Rect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewBox = r
	return nil
}

func (m *Memory) SetSelectionBox(r geom.Rect, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selBox, m.selVisible = r, visible
	return nil
}

func (m *Memory) SetTempWire(d string, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tempWire, m.tempVisible = d, visible
	return nil
}

// =============================================================================
// Frames
// =============================================================================

// PinFrame is a rendered pin.
type PinFrame struct {
	PinRef
	Center geom.Point `json:"center"`
}

// NodeFrame is a rendered node. Box is in world units.
type NodeFrame struct {
	ID       NodeID     `json:"id"`
	Label    string     `json:"label,omitempty"`
	Box      geom.Rect  `json:"box"`
	Selected bool       `json:"selected,omitempty"`
	Pins     []PinFrame `json:"pins,omitempty"`
}

// WireFrame is a rendered wire.
type WireFrame struct {
	Wire
	Path     string `json:"path,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// Frame is a snapshot of everything a Memory surface would draw.
type Frame struct {
	Bounds    geom.Rect      `json:"bounds"`
	View      geom.Transform `json:"view"`
	ViewBox   geom.Rect      `json:"view_box"`
	Nodes     []NodeFrame    `json:"nodes"`
	Wires     []WireFrame    `json:"wires"`
	Selection *geom.Rect     `json:"selection,omitempty"`
	TempWire  string         `json:"temp_wire,omitempty"`
}

// Frame snapshots the surface.
func (m *Memory) Frame() Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f := Frame{
		Bounds:  m.bounds,
		View:    m.view,
		ViewBox: m.viewBox,
		Nodes:   make([]NodeFrame, 0, len(m.nodeOrder)),
		Wires:   make([]WireFrame, 0, len(m.wireOrder)),
	}
	for _, id := range m.nodeOrder {
		n := m.nodes[id]
		nf := NodeFrame{ID: id, Label: n.spec.Label, Box: n.box(), Selected: n.selected}
		for _, p := range n.spec.Pins {
			nf.Pins = append(nf.Pins, PinFrame{
				PinRef: PinRef{Node: id, Pin: p.ID, IsOutput: p.Output},
				Center: n.spec.Pos.Add(p.Offset),
			})
		}
		f.Nodes = append(f.Nodes, nf)
	}
	for _, id := range m.wireOrder {
		w := m.wires[id]
		f.Wires = append(f.Wires, WireFrame{Wire: w.wire, Path: w.path, Selected: w.selected})
	}
	if m.selVisible {
		r := m.selBox
		f.Selection = &r
	}
	if m.tempVisible {
		f.TempWire = m.tempWire
	}
	return f
}

// SelectedNodes returns the ids carrying the selected marker, sorted.
func (m *Memory) SelectedNodes() []NodeID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []NodeID
	for id, n := range m.nodes {
		if n.selected {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
