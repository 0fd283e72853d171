// Package toolserver exposes the observer socket: a local websocket that
// streams world snapshots and annotations to debugging UIs, plus the
// metrics/pprof debug endpoint.
package toolserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sslcoach/internal/metrics"
	"sslcoach/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The socket binds to localhost only; any local origin is fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ToolRequest is the closed set of messages an observer may send. Unknown
// types are logged and dropped, reserving room for future variants.
type ToolRequest struct {
	Type string `json:"type"`
}

// wsClient tracks one observer connection.
type wsClient struct {
	id   string
	conn *websocket.Conn
}

// Hub manages the observer connections and fans snapshots out to them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan string
}

// NewHub builds an empty hub; call Run on its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*wsClient),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *wsClient),
		unregister: make(chan string),
	}
}

// Run services registration and broadcast until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			count := len(h.clients)
			h.mu.Unlock()
			telemetry.Infof("observer connected (%d total)", count)
			metrics.UpdateToolConnections(count)

		case id := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[id]; ok {
				_ = client.conn.Close()
				delete(h.clients, id)
			}
			count := len(h.clients)
			h.mu.Unlock()
			telemetry.Infof("observer disconnected (%d remaining)", count)
			metrics.UpdateToolConnections(count)

		case message := <-h.broadcast:
			h.mu.RLock()
			var dead []string
			for id, client := range h.clients {
				if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
					dead = append(dead, id)
				}
			}
			h.mu.RUnlock()
			for _, id := range dead {
				h.unregisterClient(id)
			}
		}
	}
}

func (h *Hub) unregisterClient(id string) {
	h.mu.Lock()
	if client, ok := h.clients[id]; ok {
		_ = client.conn.Close()
		delete(h.clients, id)
	}
	count := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateToolConnections(count)
}

// Broadcast queues a message for every observer. A full queue drops the
// message; observers are never allowed to stall the loop.
func (h *Hub) Broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		telemetry.Errorf("tool broadcast marshal: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades an observer connection and services its reads.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Errorf("observer upgrade: %v", err)
		return
	}
	client := &wsClient{id: uuid.NewString(), conn: conn}
	h.register <- client

	go func() {
		defer func() { h.unregister <- client.id }()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req ToolRequest
			if err := json.Unmarshal(message, &req); err != nil {
				continue
			}
			// No request variants are implemented yet.
			telemetry.Debugf("observer request ignored: %q", req.Type)
		}
	}()
}
