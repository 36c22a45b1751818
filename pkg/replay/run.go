package replay

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/graph"
	"github.com/igloo/penguin/pkg/grid"
	"github.com/igloo/penguin/pkg/live"
	"github.com/igloo/penguin/pkg/scene"
	"github.com/igloo/penguin/pkg/session"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
	positionEps   = 1e-6
)

// Result is the outcome of one run.
type Result struct {
	Script    string          `json:"script"`
	Steps     int             `json:"steps"`
	Snapshots []Snapshot      `json:"snapshots,omitempty"`
	Rejected  []Rejection     `json:"rejected,omitempty"`
	Final     editor.Snapshot `json:"final"`
	Frame     scene.Frame     `json:"frame"`
	Failures  []string        `json:"failures,omitempty"`
	Duration  time.Duration   `json:"duration"`
}

// Snapshot is a labeled mid-script state.
type Snapshot struct {
	Step  int             `json:"step"`
	Label string          `json:"label,omitempty"`
	State editor.Snapshot `json:"state"`
}

// Rejection is a step the editor refused.
type Rejection struct {
	Step  int    `json:"step"`
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Run opens a fresh session for doc and plays the script against it.
// Delayed rerenders are not scheduled; one synchronous render runs after the
// last step instead.
func Run(ctx context.Context, doc graph.Document, s *Script, opts editor.Options) (*Result, error) {
	w, h := s.Width, s.Height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	opts.AfterFunc = func(time.Duration, func()) {}

	sess, err := session.Open(doc, geom.Rect{Max: geom.Pt(w, h)}, opts)
	if err != nil {
		return nil, err
	}
	defer sess.Editor.Detach()

	if g := s.Grid; g != nil {
		size := g.Size
		if size == 0 {
			size = grid.DefaultSize
		}
		if err := sess.Editor.SetGridSettings(g.Enabled, g.Snap, size); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "grid")
		}
	}
	if v := s.Viewport; v != nil {
		zoom := v.Zoom
		if zoom == 0 {
			zoom = 1
		}
		if err := sess.Editor.SetViewport(geom.Pt(v.Pan[0], v.Pan[1]), zoom); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "viewport")
		}
	}

	start := time.Now()
	res := &Result{Script: s.Name, Steps: len(s.Steps)}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if st.Type == StepSnapshot {
			res.Snapshots = append(res.Snapshots, Snapshot{Step: i + 1, Label: st.Label, State: sess.Editor.Snapshot()})
			continue
		}
		if err := live.Apply(sess, st.Message()); err != nil {
			res.Rejected = append(res.Rejected, Rejection{
				Step:  i + 1,
				Type:  st.Type,
				Code:  string(errors.GetCode(err)),
				Error: errors.UserMessage(err),
			})
		}
	}
	sess.Editor.Rerender()

	res.Final = sess.Editor.Snapshot()
	res.Frame = sess.Scene.Frame()
	res.Duration = time.Since(start)
	if s.Expect != nil {
		res.Failures = check(*s.Expect, res.Final, len(res.Frame.Wires))
	}
	return res, nil
}

func check(e Expect, got editor.Snapshot, wires int) []string {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	if e.Mode != "" && e.Mode != got.Mode {
		fail("mode = %s, want %s", got.Mode, e.Mode)
	}
	if e.Selected != nil {
		if have := idStrings(got.SelectedNodes); !sameSet(have, e.Selected) {
			fail("selected nodes = %v, want %v", have, e.Selected)
		}
	}
	if e.SelectedWires != nil {
		if have := idStrings(got.SelectedWires); !sameSet(have, e.SelectedWires) {
			fail("selected wires = %v, want %v", have, e.SelectedWires)
		}
	}
	if len(e.Positions) > 0 {
		pos := make(map[string]geom.Point, len(got.Nodes))
		for _, n := range got.Nodes {
			pos[string(n.ID)] = geom.Pt(n.X, n.Y)
		}
		ids := make([]string, 0, len(e.Positions))
		for id := range e.Positions {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			want := geom.Pt(e.Positions[id][0], e.Positions[id][1])
			have, ok := pos[id]
			switch {
			case !ok:
				fail("node %s missing", id)
			case !have.Eq(want, positionEps):
				fail("node %s at %v, want %v", id, have, want)
			}
		}
	}
	if e.Pan != nil {
		if want := geom.Pt(e.Pan[0], e.Pan[1]); !got.Pan.Eq(want, positionEps) {
			fail("pan = %v, want %v", got.Pan, want)
		}
	}
	if e.Zoom != 0 && math.Abs(e.Zoom-got.Zoom) > positionEps {
		fail("zoom = %g, want %g", got.Zoom, e.Zoom)
	}
	if e.Wires != nil && *e.Wires != wires {
		fail("wires = %d, want %d", wires, *e.Wires)
	}
	return failures
}

func idStrings[T ~string](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
