package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/scribesync/server/internal/observability"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now - can be restricted in production
		return true
	},
}

// WebSocketHandler streams collaboration events to clients
type WebSocketHandler struct {
	hub    *EventHub
	logger *observability.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *EventHub, logger *observability.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger.WithField("component", "websocket"),
	}
}

// HandleConnection upgrades HTTP to WebSocket and manages the connection.
// Clients subscribe to the session topic or document:{id} topics with
// subscribe/unsubscribe frames; events fire onto subscribed topics only.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}

	client := h.hub.NewClient(uuid.New().String(), conn)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump(h.handleMessage)
}

func (h *WebSocketHandler) handleMessage(client *EventClient, data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(client, "invalid message format")
		return
	}

	switch msg.Type {
	case WSTypeSubscribe:
		if !validTopic(msg.Topic) {
			h.sendError(client, "unknown topic")
			return
		}
		h.hub.Subscribe(client, msg.Topic)

	case WSTypeUnsubscribe:
		h.hub.Unsubscribe(client, msg.Topic)

	case WSTypePing:
		h.send(client, WSMessage{Type: WSTypePong})

	default:
		h.sendError(client, "unknown message type")
	}
}

func validTopic(topic string) bool {
	if topic == TopicSession {
		return true
	}
	return strings.HasPrefix(topic, TopicDocumentPrefix) && len(topic) > len(TopicDocumentPrefix)
}

func (h *WebSocketHandler) send(client *EventClient, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

func (h *WebSocketHandler) sendError(client *EventClient, message string) {
	h.send(client, WSMessage{Type: WSTypeError, Payload: message})
}
