// Package broadcast pushes prices, predictions and per-user notifications
// to websocket clients.
package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"go.uber.org/zap"
)

// UserHeader carries the authenticated user set by the auth proxy.
const UserHeader = "X-User-ID"

const (
	sendBuffer = 64
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Envelope is the frame written to clients.
type Envelope struct {
	Channel string `json:"channel"`
	Data    any    `json:"data"`
}

type client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

var _ Broadcaster = (*Hub)(nil)

// Hub is a Broadcaster over websocket connections. A client that cannot
// keep up is disconnected rather than allowed to block publishers.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		logger:  log,
		mu:      sync.RWMutex{},
		clients: make(map[*client]struct{}),
		closed:  false,
	}
}

// ServeHTTP upgrades the request and registers the connection. The user
// is taken from UserHeader only. A connection without it is anonymous and
// receives the public channels.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(UserHeader)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))

		return
	}

	c := &client{conn: conn, userID: userID, send: make(chan []byte, sendBuffer), once: sync.Once{}}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()

		return
	}

	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("Websocket client connected", zap.String("user_id", userID))

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client frames and unregisters the client on close.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// publish queues msg for every client accepted by filter.
func (h *Hub) publish(channel string, data any, filter func(*client) bool) error {
	msg, err := json.Marshal(Envelope{Channel: channel, Data: data})
	if err != nil {
		return err
	}

	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		if filter != nil && !filter(c) {
			continue
		}

		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow websocket client", zap.String("user_id", c.userID))
		h.unregister(c)
	}

	return nil
}

func (h *Hub) PublishPrice(_ context.Context, tick types.TickMessage) error {
	return h.publish(ChannelPrices, tick, nil)
}

func (h *Hub) PublishPrediction(_ context.Context, prediction string) error {
	return h.publish(ChannelPredictions, prediction, nil)
}

func (h *Hub) Notify(_ context.Context, userID string, message string) error {
	if userID == "" {
		return nil
	}

	return h.publish(ChannelNotifications, message, func(c *client) bool {
		return c.userID == userID
	})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
