// Package cli implements the penguin command-line interface.
//
// # Commands
//
//   - edit: open a scene in the terminal canvas editor
//   - serve: run the live editing service (HTTP + WebSocket)
//   - replay: play a YAML event script against a scene
//   - export: write a scene as Graphviz DOT or SVG
//   - config: create or print the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces editor mode changes and live connections. Loggers are passed through
// context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/igloo/penguin/pkg/buildinfo"
	"github.com/igloo/penguin/pkg/config"
	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/observability"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "penguin",
		Short: "Penguin is a node-graph canvas editor",
		Long: `Penguin edits node graphs on a pannable, zoomable canvas: drag nodes,
draw wires between pins, box-select, and snap to a grid. Use it in the
terminal, serve it to browsers over WebSocket, or script it with replays.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config, applies the log level and registers debug hooks.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.path())
	if err != nil {
		return err
	}
	c.Config = cfg

	level, _ := cfg.LogLevel()
	if c.verbose {
		level = log.DebugLevel
		observability.SetInteractionHooks(debugInteractionHooks{c.Logger})
		observability.SetLiveHooks(debugLiveHooks{c.Logger})
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) path() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

// editorOptions maps the loaded config onto editor options.
func (c *CLI) editorOptions() editor.Options {
	cfg := c.Config
	return editor.Options{
		Logger:         c.Logger,
		Grid:           cfg.Grid,
		ZoomStep:       cfg.Viewport.ZoomStep,
		SampleInterval: cfg.Render.SampleInterval,
		RerenderDelay:  cfg.Render.Delay.Duration,
		InitialDelay:   cfg.Render.InitialDelay.Duration,
	}
}
