package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/observability"
)

// HubConfig configures the price feed.
type HubConfig struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is how long a client may stay silent, pongs included.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// SendBuffer is the number of pending messages per client before it is
	// considered slow and dropped.
	SendBuffer int
}

// DefaultHubConfig returns default price feed configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		PingInterval: 30 * time.Second,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		SendBuffer:   4,
	}
}

// PriceMessage is the payload pushed to feed clients.
type PriceMessage struct {
	Type     string                `json:"type"`
	Snapshot *domain.PriceSnapshot `json:"snapshot"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// Hub fans price snapshots out to websocket clients.
type Hub struct {
	config   HubConfig
	upgrader websocket.Upgrader
	logger   logrus.FieldLogger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	last    []byte // most recent encoded message, replayed on connect
}

// NewHub creates an empty hub.
func NewHub(config HubConfig, logger logrus.FieldLogger) *Hub {
	def := DefaultHubConfig()
	if config.PingInterval <= 0 {
		config.PingInterval = def.PingInterval
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = def.ReadTimeout
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = def.WriteTimeout
	}
	if config.SendBuffer <= 0 {
		config.SendBuffer = def.SendBuffer
	}
	return &Hub{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Public read-only data; any origin may subscribe.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger.WithField("component", "price_feed"),
		clients: make(map[*wsClient]struct{}),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast pushes snap to every client. Clients whose buffer is full are
// disconnected rather than waited on.
func (h *Hub) Broadcast(snap *domain.PriceSnapshot) {
	msg, err := json.Marshal(PriceMessage{Type: "prices", Snapshot: snap})
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode price message")
		return
	}

	h.mu.Lock()
	h.last = msg
	var slow []*wsClient
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow price feed client")
		h.remove(c)
	}
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, h.config.SendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	n := len(h.clients)
	h.mu.Unlock()
	observability.UpdateWSClients(n)

	go h.writeLoop(c)
	go h.readLoop(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) remove(c *wsClient) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, c)
		n := len(h.clients)
		h.mu.Unlock()
		observability.UpdateWSClients(n)

		close(c.send)
	})
}

func (h *Hub) writeLoop(c *wsClient) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readLoop discards client messages and detects disconnects.
func (h *Hub) readLoop(c *wsClient) {
	defer h.remove(c)

	c.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
