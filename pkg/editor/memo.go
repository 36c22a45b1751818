package editor

import (
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/scene"
)

// memo remembers the last value written to each surface element so
// unchanged paths and translations are not written again. A remembered
// translation is only trusted while the surface still reports it.
type memo struct {
	paths      map[scene.WireID]string
	translates map[scene.NodeID]geom.Point
}

func newMemo() memo {
	return memo{
		paths:      make(map[scene.WireID]string),
		translates: make(map[scene.NodeID]geom.Point),
	}
}

func (m memo) samePath(id scene.WireID, d string) bool {
	last, ok := m.paths[id]
	return ok && last == d
}

func (m memo) setPath(id scene.WireID, d string) { m.paths[id] = d }

func (m memo) sameTranslate(id scene.NodeID, p geom.Point) bool {
	last, ok := m.translates[id]
	return ok && last == p
}

func (m memo) setTranslate(id scene.NodeID, p geom.Point) { m.translates[id] = p }

// retainWires forgets wires that are no longer on the surface, so a wire
// re-created under the same id is drawn again.
func (m memo) retainWires(live map[scene.WireID]bool) {
	for id := range m.paths {
		if !live[id] {
			delete(m.paths, id)
		}
	}
}

func (m memo) retainNodes(ids []scene.NodeID) {
	live := make(map[scene.NodeID]bool, len(ids))
	for _, id := range ids {
		live[id] = true
	}
	for id := range m.translates {
		if !live[id] {
			delete(m.translates, id)
		}
	}
}
