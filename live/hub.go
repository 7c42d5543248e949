// Package live pushes session signals to connected browsers over WebSocket.
package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hunter_ai/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

type message struct {
	sessionID string
	payload   []byte
}

// Hub tracks the connected clients of every session and fans signals out
// to them.
type Hub struct {
	clients    map[string]map[*client]bool
	publish    chan message
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.Mutex
	logger     *log.Logger
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*client]bool),
		publish:    make(chan message, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Run handles registrations and deliveries until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Println("live: hub shutting down")
			return
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.sessionID] == nil {
				h.clients[c.sessionID] = make(map[*client]bool)
			}
			h.clients[c.sessionID][c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[c.sessionID]; ok && set[c] {
				delete(set, c)
				close(c.send)
				if len(set) == 0 {
					delete(h.clients, c.sessionID)
				}
			}
			h.mu.Unlock()
		case m := <-h.publish:
			h.mu.Lock()
			set := h.clients[m.sessionID]
			for c := range set {
				select {
				case c.send <- m.payload:
				default:
					close(c.send)
					delete(set, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify queues sig for every client of the session. Signals are dropped
// when the queue is full.
func (h *Hub) Notify(sessionID string, sig session.Signal) {
	payload, err := json.Marshal(sig)
	if err != nil {
		h.logger.Printf("live: encode %s signal: %v", sig.Kind, err)
		return
	}
	select {
	case h.publish <- message{sessionID: sessionID, payload: payload}:
	default:
		h.logger.Printf("live: queue full, dropped %s signal for %s", sig.Kind, sessionID)
	}
}

// Clients is the number of connections for a session.
func (h *Hub) Clients(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

// Serve upgrades the request and attaches the connection to sessionID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("live: upgrade failed: %v", err)
		return
	}
	c := &client{hub: h, conn: conn, sessionID: sessionID, send: make(chan []byte, 16)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
