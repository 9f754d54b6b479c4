/*
Package notify pushes state-change notifications to connected browser pages.

Every successful mutation broadcasts a small "state_updated" event over
WebSocket. Pages react by re-syncing their view through the session refresh
endpoint, so an owner's certificate generation becomes visible to an already
open student page without polling. The visibilitychange re-sync in the page
covers clients whose socket dropped.

All writes to a connection go through its write pump goroutine, which also
owns the ping ticker. Broadcasting only queues onto per-client channels and
never blocks, so callers may hold their own locks while notifying.
*/
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dcg/internal/pkg/logx"
)

const (
	// writeWait is the maximum time allowed for a single write to a client.
	writeWait = 5 * time.Second

	// pongWait is the maximum time to wait for a pong before the read side
	// declares the connection dead.
	pongWait = 60 * time.Second

	// pingPeriod is the interval between keepalive pings; it must be shorter
	// than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendQueueSize bounds the per-client outbound queue. Events are re-sync
	// hints, so overflow drops the event rather than blocking the sender.
	sendQueueSize = 8

	// maxInboundSize limits inbound frames; clients have nothing to say.
	maxInboundSize = 512
)

// Event is the wire format of a hub notification.
type Event struct {
	Type string `json:"type"`
}

// client pairs a connection with its outbound queue. The write pump is the
// only goroutine writing to the connection; everything else queues onto send.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	pingEvery time.Duration
}

// Hub tracks connected clients and fans a notification out to all of them.
// Broadcast order across clients is unspecified; each client only uses the
// event as a hint to re-read server state.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	closed    bool
	pingEvery time.Duration
}

// NewHub creates a hub.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		pingEvery: pingPeriod,
	}
}

// Add registers a client connection and starts its read and write pumps.
func (h *Hub) Add(conn *websocket.Conn) {
	c := &client{
		conn:      conn,
		send:      make(chan []byte, sendQueueSize),
		pingEvery: h.pingEvery,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	logx.Info("Notify client connected", "clients", count)

	go c.writePump()
	go h.readPump(c)
}

// remove unregisters the client and closes its send queue exactly once.
// Closing the queue makes the write pump send a close frame and tear the
// connection down.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, known := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if known {
		close(c.send)
	}
}

// readPump discards inbound messages; its job is detecting closure and
// feeding the read deadline from pongs.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxInboundSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains the send queue and owns the ping ticker, making it the
// single writer on the connection. It closes the connection on exit, which
// unblocks the read pump.
func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastStateUpdated notifies every connected client that the application
// state changed. Never blocks: a client whose queue is full skips the event
// and catches up on its next re-sync.
func (h *Hub) BroadcastStateUpdated() {
	h.broadcast(Event{Type: "state_updated"})
}

func (h *Hub) broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logx.Error(err, "Failed to marshal notify event")
		return
	}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			logx.Warn("Notify queue full, dropping event")
		}
	}
}

// Shutdown closes every client connection and rejects later registrations.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		close(c.send)
	}
}
