package live

import (
	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
	"github.com/igloo/penguin/pkg/session"
)

// Message types accepted from clients.
const (
	MsgPointerDown     = "pointer_down"
	MsgPointerMove     = "pointer_move"
	MsgPointerUp       = "pointer_up"
	MsgWheel           = "wheel"
	MsgKeyDown         = "key_down"
	MsgStartWiring     = "start_wiring"
	MsgStopWiring      = "stop_wiring"
	MsgSetGrid         = "set_grid"
	MsgSetViewport     = "set_viewport"
	MsgDeleteSelection = "delete_selection"
	MsgRerender        = "rerender"
)

var knownTypes = map[string]bool{
	MsgPointerDown:     true,
	MsgPointerMove:     true,
	MsgPointerUp:       true,
	MsgWheel:           true,
	MsgKeyDown:         true,
	MsgStartWiring:     true,
	MsgStopWiring:      true,
	MsgSetGrid:         true,
	MsgSetViewport:     true,
	MsgDeleteSelection: true,
	MsgRerender:        true,
}

// KnownType reports whether t is an accepted message type.
func KnownType(t string) bool { return knownTypes[t] }

// Message is one client request. Which fields matter depends on Type.
type Message struct {
	Type    string   `json:"type"`
	X       float64  `json:"x,omitempty"`
	Y       float64  `json:"y,omitempty"`
	Button  int      `json:"button,omitempty"`
	Mods    []string `json:"mods,omitempty"`
	DeltaY  float64  `json:"delta_y,omitempty"`
	Key     string   `json:"key,omitempty"`
	Node    string   `json:"node,omitempty"`
	Pin     string   `json:"pin,omitempty"`
	Output  bool     `json:"output,omitempty"`
	Enabled bool     `json:"enabled,omitempty"`
	Snap    bool     `json:"snap,omitempty"`
	Size    float64  `json:"size,omitempty"`
	PanX    float64  `json:"pan_x,omitempty"`
	PanY    float64  `json:"pan_y,omitempty"`
	Zoom    float64  `json:"zoom,omitempty"`
}

// Event converts a pointer, wheel or key message into an editor event.
// ok is false for the other message types.
func (m Message) Event() (ev editor.Event, ok bool) {
	pos := geom.Pt(m.X, m.Y)
	switch m.Type {
	case MsgPointerDown:
		return editor.PointerDown{Pos: pos, Button: editor.Button(m.Button), Mods: editor.ParseModifiers(m.Mods)}, true
	case MsgPointerMove:
		return editor.PointerMove{Pos: pos}, true
	case MsgPointerUp:
		return editor.PointerUp{Pos: pos, Button: editor.Button(m.Button)}, true
	case MsgWheel:
		return editor.Wheel{Pos: pos, DeltaY: m.DeltaY}, true
	case MsgKeyDown:
		return editor.KeyDown{Key: m.Key, Mods: editor.ParseModifiers(m.Mods)}, true
	}
	return nil, false
}

// Apply runs the message against a session.
func Apply(sess *session.Session, m Message) error {
	if ev, ok := m.Event(); ok {
		sess.Editor.Dispatch(ev)
		return nil
	}
	switch m.Type {
	case MsgStartWiring:
		return sess.Editor.StartWiring(scene.NodeID(m.Node), scene.PinID(m.Pin), m.Output)
	case MsgStopWiring:
		sess.Editor.StopWiring()
	case MsgSetGrid:
		return sess.Editor.SetGridSettings(m.Enabled, m.Snap, m.Size)
	case MsgSetViewport:
		return sess.Editor.SetViewport(geom.Pt(m.PanX, m.PanY), m.Zoom)
	case MsgDeleteSelection:
		sess.DeleteSelection()
	case MsgRerender:
		sess.Editor.Rerender()
	case "":
		return errors.New(errors.ErrCodeInvalidInput, "message type is required")
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown message type %q", m.Type)
	}
	return nil
}

// Update types sent to clients.
const (
	UpdateState = "state"
	UpdateError = "error"
)

// Update is one server message.
type Update struct {
	Type  string     `json:"type"`
	Seq   uint64     `json:"seq,omitempty"`
	State *State     `json:"state,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// State is the full observable state of a session.
type State struct {
	ID       string          `json:"id"`
	Snapshot editor.Snapshot `json:"snapshot"`
	Frame    scene.Frame     `json:"frame"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func stateOf(sess *session.Session) *State {
	return &State{
		ID:       sess.ID,
		Snapshot: sess.Editor.Snapshot(),
		Frame:    sess.Scene.Frame(),
	}
}

func errorBody(err error) *ErrorBody {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return &ErrorBody{Code: string(code), Message: errors.UserMessage(err)}
}
