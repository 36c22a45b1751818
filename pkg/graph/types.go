package graph

// Document is the serialized form of a canvas scene.
type Document struct {
	Nodes []Node `json:"nodes"`
	Wires []Wire `json:"wires,omitempty"`
}

// Node is a node with its world position and pins.
type Node struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"` // Display label (defaults to ID)
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Pins   []Pin   `json:"pins,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Pin is a connection point. X and Y are the pin center relative to the
// node's top-left corner; when both are nil the pin is laid out automatically.
type Pin struct {
	ID     string   `json:"id"`
	Output bool     `json:"output,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

// Endpoint addresses a pin by node and pin id. The direction is implied by
// which end of the wire it is.
type Endpoint struct {
	Node string `json:"node"`
	Pin  string `json:"pin"`
}

// Wire connects an output pin to an input pin.
type Wire struct {
	ID   string   `json:"id,omitempty"`
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
}
