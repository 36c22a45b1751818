package replay

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/grid"
	"github.com/igloo/penguin/pkg/live"
)

// StepSnapshot records the session state under the step's label.
const StepSnapshot = "snapshot"

// Script is a replayable sequence of input steps.
type Script struct {
	Name     string         `yaml:"name" json:"name"`
	Width    float64        `yaml:"width,omitempty" json:"width,omitempty"`   // canvas width (default 1280)
	Height   float64        `yaml:"height,omitempty" json:"height,omitempty"` // canvas height (default 800)
	Grid     *grid.Settings `yaml:"grid,omitempty" json:"grid,omitempty"`
	Viewport *Viewport      `yaml:"viewport,omitempty" json:"viewport,omitempty"`
	Steps    []Step         `yaml:"steps" json:"steps"`
	Expect   *Expect        `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Viewport is an initial pan and zoom.
type Viewport struct {
	Pan  [2]float64 `yaml:"pan" json:"pan"`
	Zoom float64    `yaml:"zoom" json:"zoom"`
}

// Step is one scripted action.
type Step struct {
	Type    string   `yaml:"type" json:"type"`
	Label   string   `yaml:"label,omitempty" json:"label,omitempty"`
	X       float64  `yaml:"x,omitempty" json:"x,omitempty"`
	Y       float64  `yaml:"y,omitempty" json:"y,omitempty"`
	Button  int      `yaml:"button,omitempty" json:"button,omitempty"`
	Mods    []string `yaml:"mods,omitempty" json:"mods,omitempty"`
	DeltaY  float64  `yaml:"delta_y,omitempty" json:"delta_y,omitempty"`
	Key     string   `yaml:"key,omitempty" json:"key,omitempty"`
	Node    string   `yaml:"node,omitempty" json:"node,omitempty"`
	Pin     string   `yaml:"pin,omitempty" json:"pin,omitempty"`
	Output  bool     `yaml:"output,omitempty" json:"output,omitempty"`
	Enabled bool     `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Snap    bool     `yaml:"snap,omitempty" json:"snap,omitempty"`
	Size    float64  `yaml:"size,omitempty" json:"size,omitempty"`
	PanX    float64  `yaml:"pan_x,omitempty" json:"pan_x,omitempty"`
	PanY    float64  `yaml:"pan_y,omitempty" json:"pan_y,omitempty"`
	Zoom    float64  `yaml:"zoom,omitempty" json:"zoom,omitempty"`
}

// Message converts the step to its live protocol form.
func (s Step) Message() live.Message {
	return live.Message{
		Type:    s.Type,
		X:       s.X,
		Y:       s.Y,
		Button:  s.Button,
		Mods:    s.Mods,
		DeltaY:  s.DeltaY,
		Key:     s.Key,
		Node:    s.Node,
		Pin:     s.Pin,
		Output:  s.Output,
		Enabled: s.Enabled,
		Snap:    s.Snap,
		Size:    s.Size,
		PanX:    s.PanX,
		PanY:    s.PanY,
		Zoom:    s.Zoom,
	}
}

// Expect describes the state a script should end in. Empty fields are not
// checked.
type Expect struct {
	Mode          string                `yaml:"mode,omitempty" json:"mode,omitempty"`
	Selected      []string              `yaml:"selected,omitempty" json:"selected,omitempty"`
	SelectedWires []string              `yaml:"selected_wires,omitempty" json:"selected_wires,omitempty"`
	Positions     map[string][2]float64 `yaml:"positions,omitempty" json:"positions,omitempty"`
	Pan           *[2]float64           `yaml:"pan,omitempty" json:"pan,omitempty"`
	Zoom          float64               `yaml:"zoom,omitempty" json:"zoom,omitempty"`
	Wires         *int                  `yaml:"wires,omitempty" json:"wires,omitempty"`
}

// LoadScript reads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "read %s", path)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "%s", path)
	}
	return s, nil
}

// ParseScript decodes and validates a YAML script. Unknown keys are errors.
func ParseScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks step types and the canvas size.
func (s *Script) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return errors.New(errors.ErrCodeInvalidScript, "canvas size must not be negative")
	}
	for i, st := range s.Steps {
		if st.Type != StepSnapshot && !live.KnownType(st.Type) {
			return errors.New(errors.ErrCodeInvalidScript, "step %d: unknown type %q", i+1, st.Type)
		}
	}
	return nil
}
