// Package live pushes waiting-hall boards to connected display screens.
package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Domenick1991/opdqueue/internal/kafka"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// CloseSessionExpired is sent when the display's session lapses.
const CloseSessionExpired = 4001

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Snapshot renders the current board for one screen.
type Snapshot func(ctx context.Context) (interface{}, error)

type client struct {
	signal chan struct{}
}

type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	poll    time.Duration
	log     *zap.Logger
}

func NewHub(poll time.Duration, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{clients: make(map[*client]struct{}), poll: poll, log: log}
}

// Changed wakes every screen; a screen that already has a pending wake-up is skipped.
func (h *Hub) Changed(event kafka.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.signal <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register() *client {
	c := &client{signal: make(chan struct{}, 1)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Serve pushes a snapshot on connect, on every change signal and on every poll tick,
// until the peer goes away, ctx ends, or expiresAt passes.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, snapshot Snapshot, expiresAt time.Time) {
	c := h.register()
	defer h.unregister(c)
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()

	var expired <-chan time.Time
	if !expiresAt.IsZero() {
		timer := time.NewTimer(time.Until(expiresAt))
		defer timer.Stop()
		expired = timer.C
	}

	if !h.push(ctx, conn, snapshot) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			h.close(conn, websocket.CloseGoingAway, "server shutting down")
			return
		case <-gone:
			return
		case <-expired:
			h.close(conn, CloseSessionExpired, "session expired")
			return
		case <-c.signal:
		case <-ticker.C:
		}
		if !h.push(ctx, conn, snapshot) {
			return
		}
	}
}

func (h *Hub) push(ctx context.Context, conn *websocket.Conn, snapshot Snapshot) bool {
	board, err := snapshot(ctx)
	if err != nil {
		h.log.Error("failed to build hall snapshot", zap.Error(err))
		return true
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(board); err != nil {
		h.log.Debug("hall client write failed", zap.Error(err))
		return false
	}
	return true
}

func (h *Hub) close(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
