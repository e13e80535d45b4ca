package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"FlipSentinel/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Envelope is the wire frame pushed to websocket subscribers.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans broadcast payloads out to all connected websocket clients.
type Hub struct {
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
	clients    map[*wsClient]struct{}
	metrics    *metrics.Registry
	log        zerolog.Logger
}

// NewHub creates a hub. Run must be started before Broadcast is used.
func NewHub(reg *metrics.Registry, log zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 8),
		clients:    make(map[*wsClient]struct{}),
		metrics:    reg,
		log:        log.With().Str("component", "ws").Logger(),
	}
}

// Run owns the client set; all membership changes go through its channels.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setClientGauge()
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.setClientGauge()
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer: drop it rather than stall everyone.
					delete(h.clients, c)
					close(c.send)
					h.setClientGauge()
				}
			}
		}
	}
}

func (h *Hub) setClientGauge() {
	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(len(h.clients)))
	}
}

// Broadcast marshals the payload into an envelope and pushes it to every
// connected client.
func (h *Hub) Broadcast(typ string, data any) {
	msg, err := json.Marshal(Envelope{Type: typ, Data: data})
	if err != nil {
		h.log.Error().Err(err).Str("type", typ).Msg("marshal broadcast")
		return
	}
	h.broadcast <- msg
}

// handleWS upgrades the connection and subscribes it to broadcasts.
func (h *Hub) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

// readPump drains inbound frames; subscribers don't send anything we act
// on, but reading is required to process pongs and detect closes.
func (h *Hub) readPump(c *wsClient) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
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
