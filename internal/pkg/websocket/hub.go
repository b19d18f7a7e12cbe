package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
)

// Message types
const (
	MessageTypeChat  = "message"
	MessageTypeError = "error"
)

// Message is the frame exchanged with study circle chat clients
type Message struct {
	Type      string         `json:"type"`
	ID        int64          `json:"id,omitempty"`
	CircleID  int64          `json:"circle_id"`
	SenderID  int64          `json:"sender_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Author    *models.Author `json:"author,omitempty"`
}

// FromCircleMessage wraps a stored circle message into a chat frame
func FromCircleMessage(m *models.CircleMessage) *Message {
	return &Message{
		Type:      MessageTypeChat,
		ID:        m.ID,
		CircleID:  m.CircleID,
		SenderID:  m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Author:    m.Author,
	}
}

// Hub keeps one room of connected clients per study circle
type Hub struct {
	rooms map[int64]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan *Message

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[int64]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until Close is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Close stops Run and disconnects every client
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.circleID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[client.circleID] = room
	}
	room[client] = true

	h.logger.Info().
		Int64("circleID", client.circleID).
		Int64("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client from its room. Caller holds mu.
func (h *Hub) removeLocked(client *Client) {
	room, ok := h.rooms[client.circleID]
	if !ok || !room[client] {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.circleID)
	}

	h.logger.Info().
		Int64("circleID", client.circleID).
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Int64("circleID", message.CircleID).Msg("Failed to marshal message for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[message.CircleID]
	for client := range room {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Int64("circleID", message.CircleID).
		Int("clientCount", len(room)).
		Msg("Message broadcasted to circle")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for client := range room {
			h.removeLocked(client)
		}
	}
}

// Broadcast queues an already persisted message for every client of its circle
func (h *Hub) Broadcast(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// receive handles a frame read from a client socket. With listeners attached
// the first one is responsible for persisting and re-broadcasting it.
func (h *Hub) receive(message *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	if len(h.listeners) == 0 {
		h.Broadcast(message)
		return
	}
	for _, listener := range h.listeners {
		select {
		case listener <- message:
		default:
			h.logger.Warn().Int64("circleID", message.CircleID).Msg("Skipped slow message listener")
		}
	}
}

// ClientsCount returns the number of connected clients for a circle
func (h *Hub) ClientsCount(circleID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[circleID])
}

// AddMessageListener registers a channel that receives every inbound frame
func (h *Hub) AddMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveMessageListener detaches a listener
func (h *Hub) RemoveMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			return
		}
	}
}
