package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientBuffer   = 32
	maxInboundSize = 512
)

// AlertEvent is the websocket frame sent to subscribers.
type AlertEvent struct {
	Type  string       `json:"type"`
	Alert domain.Alert `json:"alert"`
}

// AlertHub fans alerts out to websocket subscribers. Slow subscribers whose
// buffer is full are disconnected rather than blocking the publisher.
type AlertHub struct {
	logger    *logrus.Logger
	upgrader  websocket.Upgrader
	onPublish func(domain.Alert)

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
}

type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// NewAlertHub creates a hub accepting connections from origins ("*" for any).
// onPublish, when set, is called for every published alert.
func NewAlertHub(logger *logrus.Logger, origins []string, onPublish func(domain.Alert)) *AlertHub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &AlertHub{
		logger:    logger,
		onPublish: onPublish,
		clients:   make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Publish implements service.AlertPublisher.
func (h *AlertHub) Publish(alert domain.Alert) {
	if h.onPublish != nil {
		h.onPublish(alert)
	}

	payload, err := json.Marshal(AlertEvent{Type: "alert", Alert: alert})
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode alert")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.clients {
		select {
		case sub.send <- payload:
		default:
			h.logger.WithField("subscriber", sub.id).Warn("Alert subscriber too slow, disconnecting")
			delete(h.clients, sub)
			sub.close()
		}
	}
}

// Subscribers returns the number of connected clients.
func (h *AlertHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones.
func (h *AlertHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.clients {
		delete(h.clients, sub)
		sub.close()
	}
}

// ServeWS upgrades the request and streams alerts until the client leaves.
func (h *AlertHub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	sub := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.clients[sub] = struct{}{}
	h.mu.Unlock()

	h.logger.WithField("subscriber", sub.id).Info("Alert subscriber connected")

	go h.writePump(sub)
	h.readPump(sub)
}

func (h *AlertHub) remove(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.clients[sub]; ok {
		delete(h.clients, sub)
		sub.close()
	}
	h.mu.Unlock()
}

// readPump discards client frames and notices disconnects.
func (h *AlertHub) readPump(sub *subscriber) {
	defer func() {
		h.remove(sub)
		sub.conn.Close()
		h.logger.WithField("subscriber", sub.id).Info("Alert subscriber disconnected")
	}()

	sub.conn.SetReadLimit(maxInboundSize)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *AlertHub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
