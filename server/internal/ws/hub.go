package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/homepulse/homepulse/server/internal/api"
	"github.com/homepulse/homepulse/server/internal/store"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong before treating the
	// connection as dead. Pings go out at 90% of this interval.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// outBufSize is the per-session outgoing message buffer depth.
	outBufSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins — CORS belongs at the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients on every broadcast tick.
type Message struct {
	Event string               `json:"event"`
	Data  api.SnapshotResponse `json:"data"`
}

// Hub manages WebSocket sessions and pushes the current fleet snapshot to
// every connected client on a fixed interval.
type Hub struct {
	store    *store.Store
	interval time.Duration

	mu       sync.RWMutex
	sessions map[*session]struct{}
}

// session is one connected WebSocket client and its outgoing queue.
type session struct {
	conn *websocket.Conn
	out  chan []byte
}

// New creates a Hub that reads from st and broadcasts every interval.
func New(st *store.Store, interval time.Duration) *Hub {
	return &Hub{
		store:    st,
		interval: interval,
		sessions: make(map[*session]struct{}),
	}
}

// Run drives the broadcast ticker. It blocks until ctx is cancelled, then
// closes all active sessions.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for s := range h.sessions {
				close(s.out)
				delete(h.sessions, s)
			}
			h.mu.Unlock()
			return
		case <-t.C:
			h.push()
		}
	}
}

// ServeHTTP upgrades the connection and serves the client until it closes.
// The current snapshot is sent immediately so dashboards have data right away
// rather than waiting for the first tick.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	s := &session{conn: conn, out: make(chan []byte, outBufSize)}
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	defer h.drop(s)

	if data, err := h.snapshotMessage(); err == nil {
		s.out <- data
	}

	go s.writePump()
	s.readPump() // blocks until the connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// drop removes a session and closes its outgoing queue. Safe to call more
// than once for the same session.
func (h *Hub) drop(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.out)
	}
}

// push sends the current snapshot to every session. A session whose queue is
// full is dropped — a stalled client must not hold up the rest.
func (h *Hub) push() {
	data, err := h.snapshotMessage()
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		select {
		case s.out <- data:
		default:
			h.drop(s)
		}
	}
}

func (h *Hub) snapshotMessage() ([]byte, error) {
	return json.Marshal(Message{
		Event: "snapshot",
		Data:  api.BuildSnapshot(h.store),
	})
}

// writePump forwards queued messages to the connection and keeps it alive
// with periodic pings. One goroutine per session.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Queue closed: hub shutdown or session dropped.
				s.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes frames so control messages (pong, close) are processed
// and disconnects are noticed. Blocks until the connection closes.
func (s *session) readPump() {
	defer s.conn.Close()
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			break
		}
	}
}
