package replay

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/graph"
)

func twoNodes() graph.Document {
	return graph.Document{
		Nodes: []graph.Node{
			{ID: "a", X: 0, Y: 0, Pins: []graph.Pin{{ID: "out", Output: true}}},
			{ID: "b", X: 300, Y: 0, Pins: []graph.Pin{{ID: "in"}}},
		},
	}
}

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := ParseScript([]byte(src))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	return s
}

func run(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Run(context.Background(), twoNodes(), mustParse(t, src), editor.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestDragWithSnap(t *testing.T) {
	res := run(t, `
name: drag a onto the grid
grid: {enabled: true, snap: true, size: 20}
steps:
  - {type: pointer_down, x: 20, y: 10}
  - {type: pointer_move, x: 73, y: 12}
  - {type: snapshot, label: moving}
  - {type: pointer_up, x: 73, y: 12}
expect:
  mode: idle
  selected: [a]
  positions:
    a: [60, 0]
    b: [300, 0]
`)
	if !res.Passed() {
		t.Fatalf("failures: %v", res.Failures)
	}
	if len(res.Snapshots) != 1 {
		t.Fatalf("snapshots = %d", len(res.Snapshots))
	}
	mid := res.Snapshots[0]
	if mid.Label != "moving" || mid.Step != 3 || mid.State.Mode != "dragging" {
		t.Errorf("mid snapshot = %+v", mid)
	}
	if got := mid.State.Nodes[0]; got.X != 53 || got.Y != 2 {
		t.Errorf("unsnapped position = (%g, %g), want (53, 2)", got.X, got.Y)
	}
}

func TestWheelZoomAboutCursor(t *testing.T) {
	res := run(t, `
steps:
  - {type: wheel, x: 100, y: 100, delta_y: -1}
expect:
  zoom: 1.1
  pan: [-10, -10]
`)
	if !res.Passed() {
		t.Errorf("failures: %v", res.Failures)
	}
}

func TestWiringCommitsOnCompatiblePin(t *testing.T) {
	res := run(t, `
steps:
  - {type: start_wiring, node: a, pin: out, output: true}
  - {type: pointer_move, x: 200, y: 30}
  - {type: pointer_up, x: 300, y: 30}
expect:
  mode: idle
  wires: 1
`)
	if !res.Passed() {
		t.Errorf("failures: %v", res.Failures)
	}
	if res.Frame.TempWire != "" {
		t.Errorf("temp wire should be hidden, got %q", res.Frame.TempWire)
	}
}

func TestRejectedStepsAreRecorded(t *testing.T) {
	res := run(t, `
steps:
  - {type: set_grid, enabled: true, size: -5}
  - {type: start_wiring, node: a, pin: missing, output: true}
  - {type: key_down, key: Escape}
expect:
  mode: idle
`)
	if !res.Passed() {
		t.Errorf("failures: %v", res.Failures)
	}
	if len(res.Rejected) != 2 {
		t.Fatalf("rejected = %+v", res.Rejected)
	}
	if r := res.Rejected[0]; r.Step != 1 || r.Code != string(errors.ErrCodeInvalidConfig) {
		t.Errorf("first rejection = %+v", r)
	}
	if r := res.Rejected[1]; r.Step != 2 || r.Code != string(errors.ErrCodePinNotFound) {
		t.Errorf("second rejection = %+v", r)
	}
}

func TestFailedExpectations(t *testing.T) {
	res := run(t, `
steps:
  - {type: pointer_down, x: 20, y: 10}
expect:
  mode: idle
  selected: [b]
  positions:
    a: [1, 1]
    ghost: [0, 0]
`)
	if res.Passed() {
		t.Fatal("expected failures")
	}
	joined := strings.Join(res.Failures, "\n")
	for _, want := range []string{"mode = dragging", "selected nodes = [a]", "node a at", "node ghost missing"} {
		if !strings.Contains(joined, want) {
			t.Errorf("failures missing %q:\n%s", want, joined)
		}
	}
}

func TestParseScriptRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown step", "steps:\n  - {type: teleport}\n"},
		{"unknown key", "steps: []\nspeed: 3\n"},
		{"negative size", "width: -1\nsteps: []\n"},
		{"not yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.src))
			if !errors.Is(err, errors.ErrCodeInvalidScript) {
				t.Errorf("err = %v, want INVALID_SCRIPT", err)
			}
		})
	}
}

func TestParseEmptyScript(t *testing.T) {
	s, err := ParseScript(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Steps) != 0 {
		t.Errorf("steps = %d", len(s.Steps))
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pan.yaml")
	src := "name: pan\nsteps:\n  - {type: pointer_down, x: 500, y: 500}\n  - {type: pointer_move, x: 520, y: 490}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "pan" || len(s.Steps) != 2 {
		t.Errorf("script = %+v", s)
	}

	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := mustParse(t, "steps:\n  - {type: rerender}\n")
	if _, err := Run(ctx, twoNodes(), s, editor.Options{}); err == nil {
		t.Error("expected context error")
	}
}

func TestRunInvalidScene(t *testing.T) {
	doc := graph.Document{Nodes: []graph.Node{{ID: "a"}, {ID: "a"}}}
	if _, err := Run(context.Background(), doc, &Script{}, editor.Options{}); err == nil {
		t.Error("expected error for duplicate node")
	}
}
