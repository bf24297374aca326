package session

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn bounds every write with a deadline.
type wsConn struct {
	*websocket.Conn
}

func (c wsConn) WriteJSON(v any) error {
	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.Conn.WriteJSON(v)
}

// Hub owns the live sessions of a server.
type Hub struct {
	catalog *content.Catalog
	opts    Options
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	conns    map[string]*websocket.Conn
	wg       sync.WaitGroup
}

// NewHub creates a hub serving documents from catalog.
func NewHub(catalog *content.Catalog, opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		catalog:  catalog,
		opts:     opts,
		logger:   logger.With("component", "session"),
		sessions: make(map[string]*Session),
		conns:    make(map[string]*websocket.Conn),
	}
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Session returns a live session by id.
func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Serve upgrades the request and runs a session for locale until the host
// disconnects. Unknown locales are rejected before the upgrade.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, locale string) {
	doc, err := h.catalog.Lookup(locale)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	opts := h.opts
	opts.Logger = h.logger
	s := New(uuid.New().String(), doc, wsConn{conn}, opts)
	if !h.add(s, conn) {
		s.Close()
		return
	}
	defer h.remove(s)
	h.logger.Info("session opened", "session", s.ID(), "locale", s.Locale())

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", "session", s.ID(), "error", err)
			}
			return
		}
		s.HandleMessage(msg)
	}
}

func (h *Hub) add(s *Session, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions == nil {
		return false
	}
	h.sessions[s.ID()] = s
	h.conns[s.ID()] = conn
	h.wg.Add(1)
	return true
}

func (h *Hub) remove(s *Session) {
	s.Close()
	h.mu.Lock()
	if h.sessions != nil {
		delete(h.sessions, s.ID())
		delete(h.conns, s.ID())
	}
	h.mu.Unlock()
	h.wg.Done()
	h.logger.Info("session closed", "session", s.ID())
}

// CloseAll sends a close frame to every host, waits for their sessions to
// end and refuses new ones.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.conns
	h.sessions = nil
	h.conns = nil
	h.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
		_ = c.Close()
	}
	h.wg.Wait()
}
