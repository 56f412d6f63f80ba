package handlers

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scribesync/server/internal/collab"
	"github.com/scribesync/server/internal/models"
	"github.com/scribesync/server/internal/observability"
)

// WSMessage is the envelope for every WebSocket frame
type WSMessage struct {
	Type    string      `json:"type"`
	Topic   string      `json:"topic,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WebSocket message types
const (
	WSTypeSessionUpdate  = "session_update"
	WSTypeDocumentUpdate = "document_update"
	WSTypeSubscribe      = "subscribe"
	WSTypeUnsubscribe    = "unsubscribe"
	WSTypePing           = "ping"
	WSTypePong           = "pong"
	WSTypeError          = "error"
)

// Topics. Session events share one topic; document events use a per-document
// topic so a client only hears about documents it watches.
const (
	TopicSession        = "session"
	TopicDocumentPrefix = "document:" // followed by the document id
)

// DocumentTopic returns the topic carrying one document's events
func DocumentTopic(documentID string) string {
	return TopicDocumentPrefix + documentID
}

// EventClient is one connected WebSocket subscriber
type EventClient struct {
	ID         string
	Topics     map[string]bool
	Conn       *websocket.Conn
	Send       chan []byte
	hub        *EventHub
	mu         sync.Mutex
	closedOnce sync.Once
}

// EventHub relays collaboration events to WebSocket clients by topic. It is
// the asynchronous edge of the system: the core's bus delivery stays
// synchronous, and the hub buffers per client from there.
type EventHub struct {
	clients    map[*EventClient]bool
	topics     map[string]map[*EventClient]bool
	register   chan *EventClient
	unregister chan *EventClient
	broadcast  chan *topicMessage
	logger     *observability.Logger
	mu         sync.RWMutex
}

type topicMessage struct {
	topic   string
	message []byte
}

// NewEventHub creates a new event hub
func NewEventHub(logger *observability.Logger) *EventHub {
	return &EventHub{
		clients:    make(map[*EventClient]bool),
		topics:     make(map[string]map[*EventClient]bool),
		register:   make(chan *EventClient),
		unregister: make(chan *EventClient),
		broadcast:  make(chan *topicMessage, 256),
		logger:     logger.WithField("component", "event_hub"),
	}
}

// AttachBus subscribes the hub to the core's event bus. Session events go to
// the session topic; document events go to that document's topic.
func (h *EventHub) AttachBus(bus *collab.EventBus) {
	bus.SubscribeSession(func(update models.SessionUpdate) {
		h.BroadcastToTopic(TopicSession, WSMessage{
			Type:    WSTypeSessionUpdate,
			Topic:   TopicSession,
			Payload: update,
		})
	})
	bus.SubscribeDocument(func(update models.DocumentUpdate) {
		topic := DocumentTopic(update.DocumentID)
		h.BroadcastToTopic(topic, WSMessage{
			Type:    WSTypeDocumentUpdate,
			Topic:   topic,
			Payload: update,
		})
	})
}

// Run starts the hub's main loop
func (h *EventHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debugf("client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for topic := range client.Topics {
					h.dropFromTopic(client, topic)
				}
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Debugf("client disconnected: %s", client.ID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.topics[msg.topic] {
				select {
				case client.Send <- msg.message:
				default:
					// Client buffer full, drop the connection
					go func(c *EventClient) {
						h.unregister <- c
					}(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// dropFromTopic removes a client from a topic map; callers hold h.mu
func (h *EventHub) dropFromTopic(client *EventClient, topic string) {
	if topicClients, ok := h.topics[topic]; ok {
		delete(topicClients, client)
		if len(topicClients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Register adds a client to the hub
func (h *EventHub) Register(client *EventClient) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *EventHub) Unregister(client *EventClient) {
	h.unregister <- client
}

// Subscribe adds a client to a topic
func (h *EventHub) Subscribe(client *EventClient, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.Topics[topic] = true
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*EventClient]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes a client from a topic
func (h *EventHub) Unsubscribe(client *EventClient, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(client.Topics, topic)
	h.dropFromTopic(client, topic)
}

// BroadcastToTopic sends a message to all clients subscribed to a topic
func (h *EventHub) BroadcastToTopic(topic string, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("marshal hub message: %v", err)
		return
	}

	h.broadcast <- &topicMessage{topic: topic, message: data}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TopicSubscriberCount returns the number of subscribers for a topic
func (h *EventHub) TopicSubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// NewClient creates a client connected to this hub
func (h *EventHub) NewClient(id string, conn *websocket.Conn) *EventClient {
	return &EventClient{
		ID:     id,
		Topics: make(map[string]bool),
		Conn:   conn,
		Send:   make(chan []byte, 256),
		hub:    h,
	}
}

// Close closes the client connection
func (c *EventClient) Close() {
	c.closedOnce.Do(func() {
		c.hub.Unregister(c)
		c.Conn.Close()
	})
}

// WritePump pumps messages from the hub to the websocket connection
func (c *EventClient) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.mu.Lock()
			err := c.Conn.WriteMessage(websocket.TextMessage, message)
			c.mu.Unlock()

			if err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump pumps messages from the websocket connection to the hub
func (c *EventClient) ReadPump(onMessage func(client *EventClient, data []byte)) {
	defer c.Close()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnf("websocket read: %v", err)
			}
			break
		}

		if onMessage != nil {
			onMessage(c, message)
		}
	}
}
