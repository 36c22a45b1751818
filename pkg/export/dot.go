package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/igloo/penguin/pkg/cache"
	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/scene"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// pointsPerInch converts canvas units (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures diagram generation.
type Options struct {
	// Pins labels wire ends with their pin ids.
	Pins bool
	// Selection draws selected nodes and wires highlighted.
	Selection bool
	// Cache holds laid-out SVG keyed by its DOT input. Nil disables caching.
	Cache cache.Cache
	// CacheTTL bounds cached entries; zero keeps them until evicted.
	CacheTTL time.Duration
}

// ToDOT converts a frame to Graphviz DOT with every node pinned at its canvas
// position.
func ToDOT(f scene.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph canvas {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		label := n.Label
		if label == "" {
			label = string(n.ID)
		}
		c := n.Box.Center()
		attrs := []string{
			"label=" + dotQuote(label),
			fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(-c.Y)),
			fmt.Sprintf("width=%s", num(n.Box.Width()/pointsPerInch)),
			fmt.Sprintf("height=%s", num(n.Box.Height()/pointsPerInch)),
		}
		if opts.Selection && n.Selected {
			attrs = append(attrs, "color=\"#2563eb\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(string(n.ID)), strings.Join(attrs, ", "))
	}

	if len(f.Wires) > 0 {
		buf.WriteString("\n")
	}
	for _, w := range f.Wires {
		attrs := []string{"id=" + dotQuote(string(w.ID))}
		if opts.Pins {
			attrs = append(attrs, "taillabel="+dotQuote(string(w.FromPin)), "headlabel="+dotQuote(string(w.ToPin)))
		}
		if opts.Selection && w.Selected {
			attrs = append(attrs, "color=\"#2563eb\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", dotQuote(string(w.FromNode)), dotQuote(string(w.ToNode)), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render produces the frame in the named format.
func Render(ctx context.Context, f scene.Frame, format string, opts Options) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatDOT, "gv":
		return []byte(ToDOT(f, opts)), nil
	case FormatSVG:
		return renderSVGCached(ctx, ToDOT(f, opts), opts)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown export format %q (want dot or svg)", format)
}

// renderSVGCached consults opts.Cache before running the layout. Cache
// failures fall back to rendering.
func renderSVGCached(ctx context.Context, dot string, opts Options) ([]byte, error) {
	if opts.Cache == nil {
		return RenderSVG(ctx, dot)
	}
	key := cache.Key(FormatSVG, dot)
	if data, ok, err := opts.Cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	data, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	_ = opts.Cache.Set(ctx, key, data, opts.CacheTTL)
	return data, nil
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// dotQuote returns s as a DOT double-quoted string. Only backslash, quote
// and newline are escaped; everything else is passed through as UTF-8.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if strings.ToLower(format) == FormatSVG {
		return "image/svg+xml"
	}
	return "text/vnd.graphviz"
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg header with a plain
// pixel-sized one so the drawing scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
