package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/graph"
)

// Store is an in-memory session registry. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	onRemove []func(id string)
}

// NewStore creates an empty store. A non-positive ttl uses DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnRemove registers fn to run after a session leaves the store through
// Delete, expiry or Close. fn runs without the store lock held.
func (s *Store) OnRemove(fn func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRemove = append(s.onRemove, fn)
}

// Create opens a session for the document and registers it.
func (s *Store) Create(ctx context.Context, doc graph.Document, bounds geom.Rect, opts editor.Options) (*Session, error) {
	sess, err := Open(doc, bounds, opts)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess.CreatedAt = now
	sess.lastSeen = now

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns a live session and records activity on it. Unknown and expired
// ids both fail with a SESSION_NOT_FOUND error; the latter also matches
// ErrExpired.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeSessionNotFound, ErrNotFound, "session %q", id)
	}
	now := s.now()
	if sess.IsExpired(now, s.ttl) {
		s.remove(id)
		return nil, errors.Wrap(errors.ErrCodeSessionNotFound, ErrExpired, "session %q", id)
	}
	sess.Touch(now)
	return sess, nil
}

// Delete detaches and removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.remove(id) {
		return errors.Wrap(errors.ErrCodeSessionNotFound, ErrNotFound, "session %q", id)
	}
	return nil
}

// List returns every live session, oldest first.
func (s *Store) List(ctx context.Context) []Info {
	s.mu.RLock()
	out := make([]Info, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Info())
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Len returns the number of registered sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (s *Store) Cleanup(ctx context.Context) int {
	now := s.now()
	s.mu.RLock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.IsExpired(now, s.ttl) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		if s.remove(id) {
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup(ctx)
		}
	}
}

// Close detaches every session.
func (s *Store) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	hooks := s.onRemove
	s.mu.Unlock()
	for id, sess := range sessions {
		sess.Editor.Detach()
		notify(hooks, id)
	}
}

func (s *Store) remove(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	hooks := s.onRemove
	s.mu.Unlock()
	if ok {
		sess.Editor.Detach()
		notify(hooks, id)
	}
	return ok
}

func notify(hooks []func(id string), id string) {
	for _, fn := range hooks {
		fn(id)
	}
}
