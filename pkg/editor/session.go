package editor

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/grid"
	"github.com/igloo/penguin/pkg/observability"
	"github.com/igloo/penguin/pkg/scene"
	"github.com/igloo/penguin/pkg/selection"
	"github.com/igloo/penguin/pkg/wire"
)

// Session is one canvas editing session.
type Session struct {
	mu sync.Mutex

	surface scene.Surface
	query   *scene.Adapter
	sel     *selection.Manager
	opts    Options
	logger  *log.Logger

	view        geom.Transform
	size        geom.Size
	mode        Mode
	grid        grid.Settings
	lastPointer geom.Point

	memo       memo
	attached   bool
	pending    bool
	generation int
}

// New creates a detached session over a surface.
func New(surface scene.Surface, opts Options) *Session {
	opts = opts.WithDefaults()
	s := &Session{
		surface: surface,
		opts:    opts,
		logger:  opts.Logger,
		view:    geom.Identity(),
		mode:    Idle{},
		grid:    opts.Grid,
		memo:    newMemo(),
	}
	s.query = scene.NewAdapter(surface, func() geom.Transform { return s.view }, opts.Logger)
	s.query.SetSampleInterval(opts.SampleInterval)
	s.sel = selection.New(surface, opts.Logger)
	return s
}

// Attach starts the session: it renders once and schedules a settle render.
func (s *Session) Attach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return errors.New(errors.ErrCodePrecondition, "session already attached")
	}
	s.attached = true
	s.logger.Debug("session attached")
	s.renderLocked()
	s.scheduleLocked(s.opts.InitialDelay)
	return nil
}

// Detach stops the session. Pending scheduled renders become no-ops and the
// mode returns to Idle without finalizing.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return
	}
	s.attached = false
	s.pending = false
	s.generation++
	s.mode = Idle{}
	s.logger.Debug("session detached")
}

// Attached reports whether the session is attached.
func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// =============================================================================
// Presentation entry points
// =============================================================================

// Rerender synchronously writes the viewport transform, the view box and
// every wire path.
func (s *Session) Rerender() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderLocked()
}

// DelayedRerender schedules a render after the configured delay. Requests
// made while one is pending are merged into it.
func (s *Session) DelayedRerender() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleLocked(s.opts.RerenderDelay)
}

// StartWiring enters Wiring from the given pin. It is ignored with a warning
// when the session is already wiring or the pin does not exist.
func (s *Session) StartWiring(node scene.NodeID, pin scene.PinID, isOutput bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startWiringLocked(scene.PinRef{Node: node, Pin: pin, IsOutput: isOutput})
}

// StopWiring leaves Wiring, discarding the temporary wire.
func (s *Session) StopWiring() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mode.(Wiring); !ok {
		s.logger.Debug("stop wiring while not wiring", "mode", s.mode)
		return
	}
	s.setModeLocked(Idle{})
}

// SetViewport sets pan and zoom directly. Zoom is clamped.
func (s *Session) SetViewport(pan geom.Point, zoom float64) error {
	if err := errors.ValidateFinite("viewport", pan.X, pan.Y, zoom); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Pan = pan
	s.view.Zoom = geom.ClampZoom(zoom)
	s.layoutChangedLocked()
	return nil
}

// SetGridSettings replaces the grid settings. An invalid size is logged and
// the previous settings are kept.
func (s *Session) SetGridSettings(enabled, snap bool, size float64) error {
	next := grid.Settings{Enabled: enabled, Snap: snap, Size: size}
	if err := next.Validate(); err != nil {
		s.logger.Warn("ignoring grid settings", "err", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = next
	s.logger.Debug("grid settings", "enabled", enabled, "snap", snap, "size", size)
	return nil
}

// GridSettings returns the current grid settings.
func (s *Session) GridSettings() grid.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// AllNodePositions returns the world position of every node on the surface.
func (s *Session) AllNodePositions() []scene.NodePosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionsLocked()
}

// SelectedNodeIDs returns the selected nodes, sorted.
func (s *Session) SelectedNodeIDs() []scene.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Nodes()
}

// SelectedWireIDs returns the selected wires, sorted.
func (s *Session) SelectedWireIDs() []scene.WireID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Wires()
}

// Mode returns the active mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// View returns the current screen/world transform.
func (s *Session) View() geom.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Snapshot is a serializable view of the session state.
type Snapshot struct {
	Mode          string               `json:"mode"`
	Pan           geom.Point           `json:"pan"`
	Zoom          float64              `json:"zoom"`
	Grid          grid.Settings        `json:"grid"`
	SelectedNodes []scene.NodeID       `json:"selected_nodes"`
	SelectedWires []scene.WireID       `json:"selected_wires"`
	Nodes         []scene.NodePosition `json:"nodes"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Mode:          s.mode.String(),
		Pan:           s.view.Pan,
		Zoom:          s.view.Zoom,
		Grid:          s.grid,
		SelectedNodes: s.sel.Nodes(),
		SelectedWires: s.sel.Wires(),
		Nodes:         s.positionsLocked(),
	}
}

func (s *Session) positionsLocked() []scene.NodePosition {
	ids := s.surface.NodeIDs()
	out := make([]scene.NodePosition, 0, len(ids))
	for _, id := range ids {
		p, err := s.query.NodeWorldPosition(id)
		if err != nil {
			s.logger.Warn("skipping node position", "err", err)
			continue
		}
		out = append(out, scene.NodePosition{ID: id, X: p.X, Y: p.Y})
	}
	return out
}

// =============================================================================
// Event dispatch
// =============================================================================

// Dispatch applies one input event. Events are ignored while detached.
func (s *Session) Dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		s.logger.Debug("event while detached", "event", ev)
		return
	}
	switch e := ev.(type) {
	case PointerDown:
		s.pointerDown(e)
	case PointerMove:
		s.pointerMove(e)
	case PointerUp:
		s.pointerUp(e)
	case Wheel:
		s.wheel(e)
	case KeyDown:
		s.keyDown(e)
	}
}

func (s *Session) pointerDown(e PointerDown) {
	s.lastPointer = e.Pos
	if _, idle := s.mode.(Idle); !idle {
		s.setModeLocked(Idle{})
	}
	additive := e.Mods.Additive()

	switch e.Button {
	case ButtonSecondary:
		if s.hitAnythingLocked(e.Pos) {
			return
		}
		if !additive && !s.sel.Empty() {
			s.sel.ClearAll()
			s.selectionChangedLocked()
		}
		s.setModeLocked(BoxSelecting{StartScreen: e.Pos, Current: e.Pos})

	case ButtonPrimary:
		if ref, ok := s.query.PinAt(e.Pos); ok {
			s.startWiringLocked(ref)
			return
		}
		if id, ok := s.query.NodeAt(e.Pos); ok {
			s.sel.SelectNode(id, additive)
			s.selectionChangedLocked()
			s.setModeLocked(Dragging{Nodes: s.sel.Nodes()})
			return
		}
		if id, ok := s.query.WireAt(e.Pos, s.opts.WireTolerance); ok {
			s.sel.SelectWire(id, additive)
			s.selectionChangedLocked()
			return
		}
		if !s.sel.Empty() {
			s.sel.ClearAll()
			s.selectionChangedLocked()
		}
		s.setModeLocked(Panning{StartScreen: e.Pos, StartPan: s.view.Pan})
	}
}

func (s *Session) hitAnythingLocked(p geom.Point) bool {
	if _, ok := s.query.NodeAt(p); ok {
		return true
	}
	_, ok := s.query.WireAt(p, s.opts.WireTolerance)
	return ok
}

func (s *Session) pointerMove(e PointerMove) {
	movement := e.Pos.Sub(s.lastPointer)
	s.lastPointer = e.Pos

	switch m := s.mode.(type) {
	case Idle:
	case Panning:
		s.view.Pan = m.StartPan.Add(e.Pos.Sub(m.StartScreen))
		s.layoutChangedLocked()
	case Dragging:
		delta := movement.Div(s.view.Zoom)
		for _, id := range m.Nodes {
			pos, err := s.query.NodeWorldPosition(id)
			if err != nil {
				s.logger.Warn("skipping dragged node", "err", err)
				continue
			}
			s.moveNodeLocked(id, pos.Add(delta))
		}
		m.Delta = m.Delta.Add(delta)
		s.mode = m
		s.layoutChangedLocked()
	case BoxSelecting:
		m.Current = e.Pos
		s.mode = m
		if err := s.surface.SetSelectionBox(m.Rect(), true); err != nil {
			s.logger.Error("skipping selection box", "err", err)
		}
	case Wiring:
		m.Pointer = s.view.ScreenToWorld(e.Pos)
		s.mode = m
		s.drawTempWireLocked(m)
	}
}

func (s *Session) pointerUp(e PointerUp) {
	s.lastPointer = e.Pos
	if m, ok := s.mode.(Wiring); ok && s.opts.Connector != nil {
		if target, ok := s.query.PinAt(e.Pos); ok && m.Start.CanConnect(target) {
			w, err := s.opts.Connector.Connect(m.Start, target)
			if err != nil {
				s.logger.Warn("wire not connected", "err", err)
			} else {
				s.logger.Debug("wire connected", "wire", w.ID, "from", w.FromNode, "to", w.ToNode)
				s.setModeLocked(Idle{})
				s.layoutChangedLocked()
				return
			}
		}
	}
	s.setModeLocked(Idle{})
}

func (s *Session) wheel(e Wheel) {
	if e.DeltaY == 0 {
		return
	}
	factor := 1 + s.opts.ZoomStep
	if e.DeltaY > 0 {
		factor = 1 - s.opts.ZoomStep
	}
	s.view = s.view.ZoomAt(e.Pos, s.view.Zoom*factor)
	s.layoutChangedLocked()
}

func (s *Session) keyDown(e KeyDown) {
	if e.Key == KeyEscape {
		s.sel.ClearAll()
		s.selectionChangedLocked()
	}
}

// =============================================================================
// Mode transitions
// =============================================================================

// setModeLocked finalizes the current mode and enters next.
func (s *Session) setModeLocked(next Mode) {
	prev := s.mode
	_, wasIdle := prev.(Idle)
	_, toIdle := next.(Idle)
	if wasIdle && toIdle {
		return
	}
	switch m := prev.(type) {
	case Idle, Panning:
	case Dragging:
		if s.grid.Snap {
			s.snapLocked(m.Nodes)
		}
	case BoxSelecting:
		s.sel.ApplyBox(m.Rect(), true, s.query, s.view)
		s.selectionChangedLocked()
		if err := s.surface.SetSelectionBox(geom.Rect{}, false); err != nil {
			s.logger.Error("skipping selection box", "err", err)
		}
	case Wiring:
		if err := s.surface.SetTempWire("", false); err != nil {
			s.logger.Error("skipping temp wire", "err", err)
		}
	}
	s.mode = next
	s.logger.Debug("mode", "from", prev, "to", next)
	observability.Interaction().OnModeChange(prev.String(), next.String())
}

func (s *Session) startWiringLocked(ref scene.PinRef) error {
	if cur, ok := s.mode.(Wiring); ok {
		err := errors.New(errors.ErrCodePrecondition, "already wiring from %s/%s", cur.Start.Node, cur.Start.Pin)
		s.logger.Warn("ignoring start wiring", "err", err)
		return err
	}
	anchor, err := s.query.PinWorldPosition(ref)
	if err != nil {
		s.logger.Warn("ignoring start wiring", "err", err)
		return err
	}
	s.setModeLocked(Wiring{Start: ref, Pointer: anchor})
	return nil
}

func (s *Session) snapLocked(ids []scene.NodeID) {
	for _, id := range ids {
		pos, err := s.query.NodeWorldPosition(id)
		if err != nil {
			s.logger.Warn("skipping snap", "err", err)
			continue
		}
		s.moveNodeLocked(id, grid.Snap(pos, s.grid.Size))
	}
	s.layoutChangedLocked()
}

func (s *Session) moveNodeLocked(id scene.NodeID, pos geom.Point) {
	if s.memo.sameTranslate(id, pos) {
		if cur, ok := s.surface.NodeTransform(id); ok && cur == pos {
			return
		}
	}
	if !s.surface.SetNodeTransform(id, pos) {
		s.logger.Warn("skipping missing node", "node", id)
		return
	}
	s.memo.setTranslate(id, pos)
}

func (s *Session) selectionChangedLocked() {
	observability.Interaction().OnSelectionChange(len(s.sel.Nodes()), len(s.sel.Wires()))
}

// layoutChangedLocked renders now and once more after the settle delay.
func (s *Session) layoutChangedLocked() {
	s.renderLocked()
	s.scheduleLocked(s.opts.RerenderDelay)
}

// =============================================================================
// Rendering
// =============================================================================

func (s *Session) renderLocked() {
	start := time.Now()

	bounds, boundsErr := s.surface.Bounds()
	if boundsErr != nil {
		s.logger.Error("skipping container measure", "err", boundsErr)
	} else {
		s.view.Origin = bounds.Min
		s.size = bounds.Size()
	}
	if err := s.surface.SetViewportTransform(s.view); err != nil {
		s.logger.Error("skipping viewport transform", "err", err)
	}
	if boundsErr == nil {
		if err := s.surface.SetViewBox(s.view.ViewBox(s.size)); err != nil {
			s.logger.Error("skipping view box", "err", err)
		}
	}
	drawn, skipped := s.drawWiresLocked()
	if m, ok := s.mode.(Wiring); ok {
		s.drawTempWireLocked(m)
	}
	nodes := s.surface.NodeIDs()
	s.sel.Retain(nodes, s.surface.WireIDs())
	s.memo.retainNodes(nodes)

	observability.Interaction().OnRerender(drawn, skipped, time.Since(start))
}

// drawWiresLocked routes every wire between its resolved pins. Wires with an
// unresolved end keep their previous path.
func (s *Session) drawWiresLocked() (drawn, skipped int) {
	ids := s.surface.WireIDs()
	live := make(map[scene.WireID]bool, len(ids))
	for _, id := range ids {
		live[id] = true
		w, ok := s.surface.Wire(id)
		if !ok {
			continue
		}
		from, errFrom := s.query.PinWorldPosition(w.From())
		to, errTo := s.query.PinWorldPosition(w.To())
		if errFrom != nil || errTo != nil {
			s.logger.Warn("missing pin positions", "wire", id, "from", errFrom, "to", errTo)
			skipped++
			continue
		}
		d := wire.Route(from, to).Path()
		drawn++
		if s.memo.samePath(id, d) {
			continue
		}
		if s.surface.SetWirePath(id, d) {
			s.memo.setPath(id, d)
		}
	}
	s.memo.retainWires(live)
	return drawn, skipped
}

func (s *Session) drawTempWireLocked(m Wiring) {
	anchor, err := s.query.PinWorldPosition(m.Start)
	if err != nil {
		s.logger.Warn("skipping temp wire", "err", err)
		return
	}
	d := wire.RouteTemp(anchor, m.Pointer, m.Start.IsOutput).Path()
	if err := s.surface.SetTempWire(d, true); err != nil {
		s.logger.Error("skipping temp wire", "err", err)
	}
}

func (s *Session) scheduleLocked(d time.Duration) {
	if !s.attached || s.pending {
		return
	}
	s.pending = true
	gen := s.generation
	s.opts.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			return
		}
		s.pending = false
		s.renderLocked()
	})
}
