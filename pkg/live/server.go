package live

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/igloo/penguin/pkg/buildinfo"
	"github.com/igloo/penguin/pkg/cache"
	"github.com/igloo/penguin/pkg/editor"
	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/export"
	"github.com/igloo/penguin/pkg/geom"
	"github.com/igloo/penguin/pkg/graph"
	"github.com/igloo/penguin/pkg/observability"
	"github.com/igloo/penguin/pkg/session"
)

const (
	DefaultPingInterval = 30 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	maxBodyBytes        = 4 << 20
	sendBuffer          = 64
)

// DefaultBounds is the canvas size given to new sessions.
var DefaultBounds = geom.Rect{Max: geom.Pt(1280, 800)}

// Options configures a Server.
type Options struct {
	Logger       *log.Logger    // default: discard
	Bounds       geom.Rect      // canvas bounds for new sessions (default: 1280x800)
	Editor       editor.Options // per-session editor options
	PingInterval time.Duration  // WebSocket keepalive (default: 30s)
	WriteTimeout time.Duration  // per-frame write deadline (default: 10s)
	Cache        cache.Cache    // laid-out SVG exports (default: in-memory)
	CacheTTL     time.Duration  // lifetime of cached exports (default: no expiry)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Bounds.Width() <= 0 || opts.Bounds.Height() <= 0 {
		opts.Bounds = DefaultBounds
	}
	if opts.Editor.Logger == nil {
		opts.Editor.Logger = opts.Logger
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = DefaultPingInterval
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory(cache.DefaultMemoryEntries)
	}
	return opts
}

// Server exposes a session store over HTTP.
type Server struct {
	store    *session.Store
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	hubs  map[string]*hub
	start time.Time
}

// NewServer creates a server for the store.
func NewServer(store *session.Store, opts Options) *Server {
	opts = opts.WithDefaults()
	s := &Server{
		store:  store,
		opts:   opts,
		logger: opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		hubs:  make(map[string]*hub),
		start: time.Now(),
	}
	store.OnRemove(s.dropHub)
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/scene", s.handleScene)
			r.Get("/export", s.handleExport)
			r.Post("/events", s.handleEvent)
			r.Get("/live", s.handleLive)
		})
	})
	return r
}

// Close disconnects every live client.
func (s *Server) Close() {
	s.mu.Lock()
	hubs := s.hubs
	s.hubs = make(map[string]*hub)
	s.mu.Unlock()
	for _, h := range hubs {
		h.closeAll()
	}
}

// =============================================================================
// HTTP handlers
// =============================================================================

type healthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Sessions int            `json:"sessions"`
	Uptime   string         `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Build:    buildinfo.Get(),
		Sessions: s.store.Len(),
		Uptime:   time.Since(s.start).Round(time.Second).String(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List(r.Context()))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	doc, err := graph.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.store.Create(r.Context(), doc, s.opts.Bounds, s.opts.Editor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session opened", "session", sess.ID, "nodes", len(doc.Nodes), "wires", len(doc.Wires))
	writeJSON(w, http.StatusCreated, stateOf(sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session closed", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, graph.FromScene(sess.Scene))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatSVG
	}
	q := r.URL.Query()
	opts := export.Options{Pins: q.Has("pins"), Selection: q.Has("selection"), Cache: s.opts.Cache, CacheTTL: s.opts.CacheTTL}
	data, err := export.Render(r.Context(), sess.Scene.Frame(), format, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var msg Message
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&msg); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode message"))
		return
	}
	if err := s.apply(r, sess, msg); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.hubFor(sess.ID).publish(sess))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) apply(r *http.Request, sess *session.Session, msg Message) error {
	observability.Live().OnEvent(r.Context(), sess.ID, msg.Type)
	if err := Apply(sess, msg); err != nil {
		s.logger.Warn("message rejected", "session", sess.ID, "type", msg.Type, "err", err)
		return err
	}
	return nil
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody(err))
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	if errors.IsNotFound(err) {
		return http.StatusNotFound
	}
	code := errors.GetCode(err)
	switch {
	case code == errors.ErrCodePrecondition:
		return http.StatusConflict
	case code == errors.ErrCodeUnsupported, strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
