package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/igloo/penguin/pkg/cache"
	"github.com/igloo/penguin/pkg/config"
	"github.com/igloo/penguin/pkg/export"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/graph"
	"github.com/igloo/penguin/pkg/session"
)

type exportOpts struct {
	format  string
	output  string
	pins    bool
	width   float64
	height  float64
	noCache bool
}

func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: export.FormatSVG, width: 1280, height: 800}

	cmd := &cobra.Command{
		Use:   "export [scene.json]",
		Short: "Export a scene as Graphviz DOT or SVG",
		Long: `Export a scene with nodes pinned at their canvas positions.

DOT output is plain text; SVG output is laid out by the embedded Graphviz
engine. Without --output the file is written next to the scene.`,
		Example: `  penguin export scene.json
  penguin export scene.json --format dot --pins -o scene.dot
  penguin export scene.json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().BoolVar(&opts.pins, "pins", false, "label wire ends with pin names")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always run the SVG layout")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, path string, opts exportOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	format := strings.ToLower(opts.format)

	doc, err := graph.ReadFile(path)
	if err != nil {
		return err
	}
	sess, err := session.Open(doc, geom.Rect{Max: geom.Pt(opts.width, opts.height)}, c.editorOptions())
	if err != nil {
		return err
	}
	sess.Editor.Rerender()
	frame := sess.Scene.Frame()
	sess.Editor.Detach()

	eo := export.Options{Pins: opts.pins, CacheTTL: c.Config.Cache.TTL.Duration}
	if format == export.FormatSVG && !opts.noCache {
		fc, err := cache.NewFileCache(cacheDir())
		if err != nil {
			logger.Warn("SVG cache disabled", "err", err)
		} else {
			eo.Cache = fc
		}
	}

	prog := newProgress(logger)
	var data []byte
	if format == export.FormatSVG && opts.output != "-" {
		spin := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Laying out SVG...")
		spin.Start()
		data, err = export.Render(ctx, frame, format, eo)
		spin.Stop()
	} else {
		data, err = export.Render(ctx, frame, format, eo)
	}
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	prog.done("Exported " + filepath.Base(out))

	w := cmd.OutOrStdout()
	printSuccess(w, "Exported %s", strings.ToUpper(format))
	printStats(w, fmt.Sprintf("%d nodes", len(frame.Nodes)), fmt.Sprintf("%d wires", len(frame.Wires)))
	printFile(w, out)
	return nil
}

// cacheDir is where laid-out SVG exports are kept between runs.
func cacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(config.Dir(), "cache")
	}
	return filepath.Join(dir, "penguin")
}

// writeScene saves a session's scene as a JSON document.
func writeScene(sess *session.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := graph.Write(graph.FromScene(sess.Scene), f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
