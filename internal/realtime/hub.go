package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// InvalidationEvent tells subscribers that every cached response is stale.
type InvalidationEvent struct {
	Type       string `json:"type"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	ID         int64  `json:"id,omitempty"`
	Generation uint64 `json:"generation"`
}

const EventCacheInvalidated = "cache_invalidated"

// SendBuffer is the number of messages queued per client before the client
// is considered too slow and dropped.
const SendBuffer = 16

// subscriber pairs a client with its outgoing queue.
type subscriber struct {
	client Client
	send   chan []byte
}

// Hub fans invalidation events out to every connected client. Each client is
// written to by its own goroutine, so Broadcast never waits on a client.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]*subscriber
	logger  zerolog.Logger
}

// NewHub returns an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[Client]*subscriber),
		logger:  logger,
	}
}

// Register adds a client and starts its writer.
func (h *Hub) Register(client Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		h.mu.Unlock()
		return
	}
	s := &subscriber{client: client, send: make(chan []byte, SendBuffer)}
	h.clients[client] = s
	h.mu.Unlock()

	go h.writeLoop(s)
}

// Unregister removes a client and stops its writer. Queued messages are
// discarded.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(s.send)
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues message for all clients. A client whose queue is full is
// dropped and closed; its handler then unwinds.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	var slow []Client
	for c, s := range h.clients {
		select {
		case s.send <- message:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn().Msg("dropping slow websocket client")
		h.drop(c)
	}
}

// PublishInvalidation encodes evt and broadcasts it.
func (h *Hub) PublishInvalidation(evt InvalidationEvent) {
	if h == nil {
		return
	}
	evt.Type = EventCacheInvalidated
	msg, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode invalidation event")
		return
	}
	h.Broadcast(msg)
}

func (h *Hub) writeLoop(s *subscriber) {
	for msg := range s.send {
		if !s.client.Send(msg) {
			h.logger.Debug().Msg("websocket write failed, dropping client")
			h.drop(s.client)
			return
		}
	}
}

func (h *Hub) drop(c Client) {
	h.Unregister(c)
	c.Close()
}
