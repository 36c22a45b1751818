package export

import (
	"context"
	"strings"
	"testing"

	"github.com/igloo/penguin/pkg/cache"
	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
)

func testFrame(t *testing.T) scene.Frame {
	t.Helper()
	mem := scene.NewMemory(geom.Rect{Max: geom.Pt(800, 600)})
	specs := []scene.NodeSpec{
		{ID: "src", Label: "Source", Pos: geom.Pt(0, 0), Pins: []scene.PinSpec{{ID: "out", Output: true, Offset: geom.Pt(120, 30)}}},
		{ID: "sink", Pos: geom.Pt(300, 100), Pins: []scene.PinSpec{{ID: "in", Offset: geom.Pt(0, 30)}}},
	}
	for _, s := range specs {
		if err := mem.AddNode(s); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := mem.Connect(
		scene.PinRef{Node: "src", Pin: "out", IsOutput: true},
		scene.PinRef{Node: "sink", Pin: "in"},
	); err != nil {
		t.Fatal(err)
	}
	mem.SetNodeSelected("sink", true)
	return mem.Frame()
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testFrame(t), Options{})

	for _, want := range []string{
		"digraph canvas {",
		`"src" [label="Source", pos="60,-30!", width=1.6666666666666667, height=0.8333333333333334];`,
		`"sink" [label="sink", pos="360,-130!"`,
		`"src" -> "sink" [id="w1"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "penwidth") {
		t.Error("selection should not be drawn without Options.Selection")
	}
}

func TestDotQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\tmp`, `"C:\\tmp"`},
		{"two\nlines", `"two\nlines"`},
		{"naïve ☃", `"naïve ☃"`},
		{"tab\there", "\"tab\there\""},
	}
	for _, tt := range tests {
		if got := dotQuote(tt.in); got != tt.want {
			t.Errorf("dotQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToDOTKeepsUnicodeLabels(t *testing.T) {
	mem := scene.NewMemory(geom.Rect{Max: geom.Pt(800, 600)})
	if err := mem.AddNode(scene.NodeSpec{ID: "é", Label: "Café \"☕\""}); err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(mem.Frame(), Options{})
	if !strings.Contains(dot, `"é" [label="Café \"☕\""`) {
		t.Errorf("unicode label mangled:\n%s", dot)
	}
	if strings.Contains(dot, `\u`) || strings.Contains(dot, `\x`) {
		t.Errorf("Go escapes in DOT output:\n%s", dot)
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(testFrame(t), Options{Pins: true, Selection: true})

	if !strings.Contains(dot, `taillabel="out", headlabel="in"`) {
		t.Errorf("pin labels missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"sink" [label="sink", pos="360,-130!", width=1.6666666666666667, height=0.8333333333333334, color="#2563eb", penwidth=2];`) {
		t.Errorf("selected node not highlighted:\n%s", dot)
	}
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	f := testFrame(t)

	dot, err := Render(ctx, f, "DOT", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot = %q", dot)
	}

	_, err = Render(ctx, f, "png", Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := Render(context.Background(), testFrame(t), FormatSVG, Options{})
	if err != nil {
		t.Fatal(err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("svg header not normalized:\n%.300s", s)
	}
	if !strings.Contains(s, "Source") {
		t.Error("node label missing from svg")
	}
}

func TestRenderSVGCached(t *testing.T) {
	ctx := context.Background()
	f := testFrame(t)
	c := cache.NewMemory(4)
	opts := Options{Cache: c}

	first, err := Render(ctx, f, FormatSVG, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("cache entries = %d, want 1", c.Len())
	}

	// A planted entry proves the second call is served from the cache.
	key := cache.Key(FormatSVG, ToDOT(f, opts))
	if err := c.Set(ctx, key, []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}
	second, err := Render(ctx, f, FormatSVG, opts)
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != "<svg>cached</svg>" {
		t.Errorf("second render = %.60q, want the cached bytes", second)
	}
	if string(first) == string(second) {
		t.Error("first render should come from graphviz")
	}

	if _, err := Render(ctx, f, FormatDOT, opts); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Errorf("DOT output should not be cached, entries = %d", c.Len())
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should pass through")
	}
}

func TestContentType(t *testing.T) {
	if ContentType("svg") != "image/svg+xml" || ContentType("dot") != "text/vnd.graphviz" {
		t.Error("unexpected content types")
	}
}
