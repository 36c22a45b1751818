// Package session keeps the live canvas editing sessions of a penguin server.
//
// A [Session] pairs one scene with one editor. Sessions live in a [Store]
// in process memory, keyed by a random UUID, and expire after a period
// without activity. Editor state is not persisted anywhere: when the process
// stops, its sessions are gone.
//
// # Usage
//
//	store := session.NewStore(time.Hour)
//	sess, err := store.Create(ctx, doc, bounds, editor.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
//
//	go store.Run(ctx, time.Minute) // periodic cleanup
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/graph"
	"github.com/igloo/penguin/pkg/scene"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the default idle lifetime of a session.
const DefaultTTL = time.Hour

// Session is one live canvas.
type Session struct {
	ID        string
	Scene     *scene.Memory
	Editor    *editor.Session
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Open builds the document's scene and attaches an editor to it. The scene
// commits wires dropped on compatible pins unless opts names another
// Connector. The session is not registered anywhere.
func Open(doc graph.Document, bounds geom.Rect, opts editor.Options) (*Session, error) {
	mem, err := graph.Build(doc, bounds)
	if err != nil {
		return nil, err
	}
	if opts.Connector == nil {
		opts.Connector = mem
	}
	ed := editor.New(mem, opts)
	if err := ed.Attach(); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		Scene:     mem,
		Editor:    ed,
		CreatedAt: now,
		lastSeen:  now,
	}, nil
}

// DeleteSelection removes the selected wires and nodes from the scene, along
// with any wires attached to removed nodes, and rerenders. It returns the
// number of nodes and wires removed.
func (s *Session) DeleteSelection() (nodes, wires int) {
	for _, id := range s.Editor.SelectedWireIDs() {
		if s.Scene.RemoveWire(id) == nil {
			wires++
		}
	}
	for _, id := range s.Editor.SelectedNodeIDs() {
		before := len(s.Scene.WireIDs())
		if s.Scene.RemoveNode(id) == nil {
			nodes++
			wires += before - len(s.Scene.WireIDs())
		}
	}
	s.Editor.Rerender()
	return nodes, wires
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// IsExpired reports whether the session has been idle longer than ttl.
func (s *Session) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastSeen()) > ttl
}

// Info summarizes a session for listings.
type Info struct {
	ID        string    `json:"id"`
	Nodes     int       `json:"nodes"`
	Wires     int       `json:"wires"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// Info summarizes the session.
func (s *Session) Info() Info {
	return Info{
		ID:        s.ID,
		Nodes:     len(s.Scene.NodeIDs()),
		Wires:     len(s.Scene.WireIDs()),
		Mode:      s.Editor.Mode().String(),
		CreatedAt: s.CreatedAt,
		LastSeen:  s.LastSeen(),
	}
}

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}
