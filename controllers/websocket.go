package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Rakib5627/mixer-machine-server/metrics"
	"github.com/Rakib5627/mixer-machine-server/models"
	"github.com/Rakib5627/mixer-machine-server/utils"
)

// Event types pushed to websocket clients.
const (
	EventSensorData = "sensor_data"
	EventAbnormal   = "abnormal"
	EventMixerState = "mixer_state"
)

const (
	writeWait = 5 * time.Second

	// Events buffered per client before new ones are dropped.
	sendBufferSize = 32
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is the envelope of every websocket message.
type Event struct {
	Type         string `json:"type"`
	Message      string `json:"message,omitempty"`
	AbnormalType string `json:"abnormal_type,omitempty"`
	Data         any    `json:"data"`
}

// Hub tracks connected dashboards and fans events out to them. It is a
// Listener, so the controller notifies it after every persisted change.
// Each client has its own writer goroutine; Broadcast only queues.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
	logger  *slog.Logger
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		logger:  logger,
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client goes away.
// GET /ws
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, sendBufferSize)}
	if !h.add(client) {
		conn.Close()
		return
	}
	go h.writePump(client)
	defer h.unregister(client)

	// Clients only listen; reading detects disconnects and handles pings.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump drains the client's queue until it is closed or a write fails.
func (h *Hub) writePump(client *wsClient) {
	defer client.conn.Close()

	for msg := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("Dropping websocket client", "error", err)
			return
		}
	}

	_ = client.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(writeWait))
}

func (h *Hub) add(client *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[client] = struct{}{}
	metrics.WebSocketClients.Inc()
	return true
}

func (h *Hub) unregister(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(client)
}

// remove requires h.mu.
func (h *Hub) remove(client *wsClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	metrics.WebSocketClients.Dec()
	close(client.send)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues ev for every client. A client whose buffer is full
// misses the event.
func (h *Hub) Broadcast(ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to encode websocket event", "type", ev.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			h.logger.Debug("WebSocket client too slow, event dropped", "type", ev.Type)
		}
	}
}

// SensorReading broadcasts the reading and, when it is out of range, a
// notification naming the offending sensor.
func (h *Hub) SensorReading(r models.SensorReading) {
	h.Broadcast(Event{Type: EventSensorData, Data: r})

	if !utils.CheckAbnormality(r.SensorPayload) {
		return
	}
	h.Broadcast(Event{
		Type:         EventAbnormal,
		Message:      "Abnormal data detected!",
		AbnormalType: utils.GetAbnormalType(r.SensorPayload),
		Data:         r,
	})
}

func (h *Hub) MixerState(st models.MixerState) {
	h.Broadcast(Event{Type: EventMixerState, Data: st})
}

// Close disconnects every client and rejects new ones. Writers send a
// going-away frame once their queue is drained.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for client := range h.clients {
		h.remove(client)
	}
}
