package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Replayed drag.yaml (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the context's logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// debugInteractionHooks traces editor activity at debug level.
type debugInteractionHooks struct{ logger *log.Logger }

func (h debugInteractionHooks) OnModeChange(from, to string) {
	h.logger.Debug("mode change", "from", from, "to", to)
}

func (h debugInteractionHooks) OnRerender(wires, skipped int, d time.Duration) {
	h.logger.Debug("rerender", "wires", wires, "skipped", skipped, "took", d)
}

func (h debugInteractionHooks) OnSelectionChange(nodes, wires int) {
	h.logger.Debug("selection", "nodes", nodes, "wires", wires)
}

// debugLiveHooks traces live connections at debug level.
type debugLiveHooks struct{ logger *log.Logger }

func (h debugLiveHooks) OnConnect(_ context.Context, id string) {
	h.logger.Debug("live connect", "session", id)
}

func (h debugLiveHooks) OnDisconnect(_ context.Context, id string, d time.Duration, err error) {
	h.logger.Debug("live disconnect", "session", id, "duration", d, "err", err)
}

func (h debugLiveHooks) OnEvent(_ context.Context, id, kind string) {
	h.logger.Debug("live event", "session", id, "type", kind)
}
