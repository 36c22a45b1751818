package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/graph"
	"github.com/igloo/penguin/pkg/replay"
)

// watchDebounce absorbs the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

type replayOpts struct {
	watch   bool
	jsonOut bool
}

func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay [scene.json] [script.yaml]",
		Short: "Play an event script against a scene",
		Long: `Replay feeds a YAML script of input events through a fresh editor session
and checks the script's expectations against the final state.

With --watch the script and scene are re-run whenever either file changes.
The command fails when an expectation does not hold.`,
		Example: `  penguin replay examples/scenes/pipeline.json examples/scripts/drag.yaml
  penguin replay scene.json script.yaml --json
  penguin replay scene.json script.yaml --watch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return c.watchReplay(cmd, args[0], args[1], opts)
			}
			return c.runReplay(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run when the scene or script changes")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runReplay(cmd *cobra.Command, scenePath, scriptPath string, opts replayOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	doc, err := graph.ReadFile(scenePath)
	if err != nil {
		return err
	}
	script, err := replay.LoadScript(scriptPath)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := replay.Run(ctx, doc, script, c.editorOptions())
	if err != nil {
		return err
	}
	prog.done("Replayed " + filepath.Base(scriptPath))

	w := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printResult(w, res)
	}

	if !res.Passed() {
		return errors.New(errors.ErrCodeExpectation, "%d expectation(s) failed", len(res.Failures))
	}
	return nil
}

func printResult(w io.Writer, res *replay.Result) {
	name := res.Script
	if name == "" {
		name = "script"
	}
	if res.Passed() {
		printSuccess(w, "%s passed", name)
	} else {
		printError(w, "%s failed", name)
	}
	printStats(w,
		fmt.Sprintf("%d steps", res.Steps),
		fmt.Sprintf("%d rejected", len(res.Rejected)),
		res.Duration.Round(time.Microsecond).String(),
	)
	for _, r := range res.Rejected {
		printWarning(w, "step %d (%s): %s", r.Step, r.Type, r.Error)
	}
	for _, f := range res.Failures {
		printDetail(w, "%s", f)
	}
	printKeyValue(w, "mode", res.Final.Mode)
	printKeyValue(w, "zoom", fmt.Sprintf("%g", res.Final.Zoom))
	printKeyValue(w, "pan", fmt.Sprintf("%g, %g", res.Final.Pan.X, res.Final.Pan.Y))
	printKeyValue(w, "selected", fmt.Sprintf("%d nodes, %d wires", len(res.Final.SelectedNodes), len(res.Final.SelectedWires)))
}

// watchReplay re-runs the replay whenever the scene or script is written.
// Failures are reported and watching continues until ctx ends.
func (c *CLI) watchReplay(cmd *cobra.Command, scenePath, scriptPath string, opts replayOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	// Watch directories so editors that replace files on save are still seen.
	targets := map[string]bool{}
	for _, p := range []string{scenePath, scriptPath} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	run := func() {
		if err := c.runReplay(cmd, scenePath, scriptPath, opts); err != nil {
			logger.Error("Replay failed", "err", errors.UserMessage(err))
		}
	}
	run()
	printInfo(cmd.OutOrStdout(), "Watching for changes (Ctrl+C to stop)")

	return watchLoop(ctx, watcher, targets, run)
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, targets map[string]bool, run func()) error {
	logger := loggerFromContext(ctx)
	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("change", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			trigger = timer.C
		case <-trigger:
			trigger = nil
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
