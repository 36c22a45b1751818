package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/observability"
	"github.com/igloo/penguin/pkg/session"
)

// hub fans updates out to every client of one session.
type hub struct {
	mu      sync.Mutex
	seq     uint64
	clients map[*client]struct{}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// publish snapshots sess and broadcasts the state. The snapshot is taken
// under the hub lock, so a higher sequence number never carries older state.
func (h *hub) publish(sess *session.Session) *State {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := stateOf(sess)
	h.broadcastLocked(Update{Type: UpdateState, State: st})
	return st
}

// broadcastLocked stamps u with the next sequence number and queues it for
// every client. Clients whose buffer is full are dropped.
func (h *hub) broadcastLocked(u Update) {
	h.seq++
	u.Seq = h.seq
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	for c := range h.clients {
		if !c.queue(data) {
			delete(h.clients, c)
			c.close()
		}
	}
}

// sendTo stamps u and queues it for one client.
func (h *hub) sendTo(c *client, u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sendLocked(c, u)
}

// sendState queues the current state of sess for one client.
func (h *hub) sendState(c *client, sess *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sendLocked(c, Update{Type: UpdateState, State: stateOf(sess)})
}

func (h *hub) sendLocked(c *client, u Update) {
	h.seq++
	u.Seq = h.seq
	if data, err := json.Marshal(u); err == nil {
		c.queue(data)
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
	}
	h.clients = make(map[*client]struct{})
}

func (s *Server) hubFor(id string) *hub {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hubs[id]
	if !ok {
		h = &hub{clients: make(map[*client]struct{})}
		s.hubs[id] = h
	}
	return h
}

func (s *Server) dropHub(id string) {
	s.mu.Lock()
	h, ok := s.hubs[id]
	delete(s.hubs, id)
	s.mu.Unlock()
	if ok {
		h.closeAll()
	}
}

// client is one WebSocket connection.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) queue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Warn("websocket upgrade failed", "session", sess.ID, "err", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h := s.hubFor(sess.ID)
	h.add(c)

	ctx := r.Context()
	started := time.Now()
	observability.Live().OnConnect(ctx, sess.ID)
	s.logger.Info("client connected", "session", sess.ID, "remote", r.RemoteAddr)

	go s.writer(c)
	h.sendState(c, sess)

	readErr := s.reader(r, sess, h, c)

	h.remove(c)
	c.close()
	observability.Live().OnDisconnect(ctx, sess.ID, time.Since(started), readErr)
	s.logger.Info("client disconnected", "session", sess.ID, "duration", time.Since(started).Round(time.Millisecond))
}

// reader applies client messages until the connection fails. It returns nil
// on a normal close.
func (s *Server) reader(r *http.Request, sess *session.Session, h *hub, c *client) error {
	wait := 2 * s.opts.PingInterval
	c.conn.SetReadLimit(maxBodyBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(wait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			select {
			case <-c.done:
				return nil
			default:
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("unexpected close", "session", sess.ID, "err", err)
			}
			return err
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(wait))
		if kind != websocket.TextMessage {
			h.sendTo(c, Update{Type: UpdateError, Error: errorBody(errors.New(errors.ErrCodeInvalidInput, "expected a text frame"))})
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendTo(c, Update{Type: UpdateError, Error: errorBody(errors.Wrap(errors.ErrCodeInvalidInput, err, "decode message"))})
			continue
		}
		if err := s.apply(r, sess, msg); err != nil {
			h.sendTo(c, Update{Type: UpdateError, Error: errorBody(err)})
			continue
		}
		sess.Touch(time.Now())
		h.publish(sess)
	}
}

// writer drains the client's queue and keeps the connection alive with pings.
func (s *Server) writer(c *client) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}
