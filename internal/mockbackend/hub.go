package mockbackend

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *feedClient) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

// Hub fans dataset change events out to every connected websocket. There
// are no topics; the update feed is one broadcast stream.
type Hub struct {
	mu      sync.RWMutex
	clients map[*feedClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*feedClient]struct{})}
}

// Broadcast sends payload to every client. A client with a full send
// buffer is dropped rather than allowed to stall the rest.
func (h *Hub) Broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	clients := make([]*feedClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			go h.detach(client)
		}
	}
}

// Serve runs the connection until the peer hangs up or stops answering
// pings. It blocks; call it from the upgrade handler.
func (h *Hub) Serve(conn *websocket.Conn) {
	client := &feedClient{conn: conn, send: make(chan []byte, 32)}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	slog.Info("ws feed client attached", slog.Int("clients", count))

	go client.writePump()
	client.readPump()
	h.detach(client)
}

// Count reports the number of attached clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every client. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*feedClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*feedClient]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
}

func (h *Hub) detach(client *feedClient) {
	h.mu.Lock()
	_, attached := h.clients[client]
	delete(h.clients, client)
	count := len(h.clients)
	h.mu.Unlock()

	client.close()
	if attached {
		slog.Info("ws feed client detached", slog.Int("clients", count))
	}
}

func (c *feedClient) writePump() {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the feed is one-way. Reading is still
// required to notice closes and answer control frames.
func (c *feedClient) readPump() {
	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ws feed read ended", slog.Any("error", err))
			}
			return
		}
	}
}
