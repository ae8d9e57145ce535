package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cascade-dex/cascade/pkg/events"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware before the
	// upgrade; the handshake itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the envelope for both directions. Clients send
// subscribe/unsubscribe commands; the hub sends engine events.
type wsMessage struct {
	Action string        `json:"action,omitempty"`
	Topic  string        `json:"topic,omitempty"`
	Event  *events.Event `json:"event,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// Client is one websocket connection with its topic subscriptions.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]bool
	mu     sync.RWMutex
}

func (c *Client) subscribed(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	// No explicit subscriptions means everything.
	if len(c.topics) == 0 {
		return true
	}
	return c.topics[topic]
}

// Hub fans engine events out to websocket clients. It is the sole bus
// subscriber for the API layer; per-client filtering happens here so a slow
// client cannot back-pressure the bus.
type Hub struct {
	bus        *events.Bus
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	logger     log.Logger
}

func NewHub(bus *events.Bus, logger log.Logger) *Hub {
	return &Hub{
		bus:        bus,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With("component", "websocket"),
	}
}

// Run pumps bus events to clients until ctx is cancelled or the bus closes.
func (h *Hub) Run(ctx context.Context) {
	sub := h.bus.Subscribe(256)
	defer sub.Close()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("client connected", "clients", len(h.clients))
		case client := <-h.unregister:
			if h.clients[client] {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("client disconnected", "clients", len(h.clients))
			}
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			h.broadcast(evt)
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

func (h *Hub) broadcast(evt events.Event) {
	payload, err := json.Marshal(wsMessage{Event: &evt})
	if err != nil {
		h.logger.Error("encode event", "err", err)
		return
	}
	for client := range h.clients {
		if !client.subscribed(evt.Type) {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Client cannot keep up; drop it rather than stall the hub.
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	client := &Client{
		hub:    s.hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		topics: make(map[string]bool),
	}
	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump consumes subscribe/unsubscribe commands until the connection
// drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg wsMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Action {
		case "subscribe":
			if msg.Topic != "" {
				c.mu.Lock()
				c.topics[msg.Topic] = true
				c.mu.Unlock()
			}
		case "unsubscribe":
			c.mu.Lock()
			delete(c.topics, msg.Topic)
			c.mu.Unlock()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
