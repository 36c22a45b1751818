package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/igloo/penguin/internal/tui"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/graph"
	"github.com/igloo/penguin/pkg/session"
)

type editOpts struct {
	grid   bool
	snap   bool
	output string
}

func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit [scene.json]",
		Short: "Edit a scene in the terminal",
		Long: `Open a scene on a full-screen terminal canvas.

Drag nodes with the mouse, drag from a pin to another pin to wire them,
drag on empty canvas to box-select, and scroll to zoom. Press ? for keys.
On quit the edited scene is written to --output, if given.`,
		Example: `  penguin edit examples/scenes/pipeline.json
  penguin edit scene.json --grid --snap -o scene.out.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.grid, "grid", false, "show the grid")
	cmd.Flags().BoolVar(&opts.snap, "snap", false, "snap dragged nodes to the grid")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the edited scene here on quit")

	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, path string, opts editOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	doc, err := graph.ReadFile(path)
	if err != nil {
		return err
	}

	sched := &tui.Scheduler{}
	eo := c.editorOptions()
	eo.AfterFunc = sched.AfterFunc
	if cmd.Flags().Changed("grid") {
		eo.Grid.Enabled = opts.grid
	}
	if cmd.Flags().Changed("snap") {
		eo.Grid.Snap = opts.snap
	}
	// The model resizes the canvas to the terminal on its first frame.
	sess, err := session.Open(doc, geom.Rect{Max: geom.Pt(640, 480)}, eo)
	if err != nil {
		return err
	}
	defer sess.Editor.Detach()

	logger.Debug("editing", "scene", path, "nodes", len(doc.Nodes), "wires", len(doc.Wires))
	if err := tui.Run(ctx, sess, tui.Options{Title: filepath.Base(path), Logger: logger, Scheduler: sched}); err != nil {
		return err
	}

	if opts.output == "" {
		return nil
	}
	if err := writeScene(sess, opts.output); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Scene saved")
	printFile(cmd.OutOrStdout(), opts.output)
	return nil
}
