package editor

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/igloo/penguin/pkg/grid"
	"github.com/igloo/penguin/pkg/scene"
	"github.com/igloo/penguin/pkg/wire"
)

const (
	DefaultZoomStep      = 0.1                    // wheel zooms by x1.1 in, x0.9 out
	DefaultRerenderDelay = 20 * time.Millisecond  // settle render after a layout change
	DefaultInitialDelay  = 100 * time.Millisecond // settle render after Attach
	DefaultWireTolerance = 4.0                    // screen pixels around a wire that count as a hit
)

// Connector commits a wire between two pins when a wiring gesture is dropped
// on a compatible pin. scene.Memory implements it.
type Connector interface {
	Connect(a, b scene.PinRef) (scene.Wire, error)
}

// Options configures a Session.
type Options struct {
	Logger         *log.Logger                     // default: discard
	Grid           grid.Settings                   // initial grid settings
	ZoomStep       float64                         // wheel zoom step (default: 0.1)
	SampleInterval float64                         // wire hit sampling distance (default: 5)
	WireTolerance  float64                         // wire hit radius in pixels (default: 4)
	RerenderDelay  time.Duration                   // default: 20ms
	InitialDelay   time.Duration                   // default: 100ms
	Connector      Connector                       // optional wire commit on pin drop
	AfterFunc      func(d time.Duration, f func()) // scheduler (default: time.AfterFunc)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Grid.Size <= 0 {
		opts.Grid.Size = grid.DefaultSize
	}
	if opts.ZoomStep <= 0 || opts.ZoomStep >= 1 {
		opts.ZoomStep = DefaultZoomStep
	}
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = wire.SampleInterval
	}
	if opts.WireTolerance <= 0 {
		opts.WireTolerance = DefaultWireTolerance
	}
	if opts.RerenderDelay <= 0 {
		opts.RerenderDelay = DefaultRerenderDelay
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return opts
}
