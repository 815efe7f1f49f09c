package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types pushed to clients
const (
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
)

// Hub keeps the live connections of each user and pushes events to them.
// A user may hold several connections (one per open tab).
type Hub struct {
	clients map[string]map[*Client]bool

	push       chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan *Message

	logger zerolog.Logger
}

// Message is an event exchanged over a user's socket
type Message struct {
	Type      string          `json:"type"`
	UserID    string          `json:"-"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		push:       make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws-hub").Logger(),
	}
}

// Run services registrations and pushes until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case msg := <-h.push:
			h.deliver(msg)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop terminates Run and closes every connection
func (h *Hub) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true
	h.logger.Debug().Str("userID", client.userID).Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	h.logger.Debug().Str("userID", client.userID).Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for c := range conns {
			h.removeLocked(c)
		}
	}
}

// deliver writes msg to every connection of its user. A connection whose
// buffer is full is dropped.
func (h *Hub) deliver(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", msg.UserID).Msg("Failed to marshal push message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[msg.UserID] {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}
}

// SendToUser queues an event for userID. It never blocks: when the queue is
// full the event is dropped, since the notification is already persisted.
func (h *Hub) SendToUser(userID, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Str("type", eventType).Msg("Failed to marshal push payload")
		return
	}
	msg := &Message{Type: eventType, UserID: userID, Data: raw, Timestamp: time.Now().UTC()}
	select {
	case h.push <- msg:
	default:
		h.logger.Warn().Str("userID", userID).Msg("Push queue full, event dropped")
	}
}

// IsOnline reports whether userID has at least one live connection
func (h *Hub) IsOnline(userID string) bool {
	return h.ConnectionCount(userID) > 0
}

// ConnectionCount returns the number of live connections for userID
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// AddListener registers a channel receiving every message sent by clients
func (h *Hub) AddListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveListener unregisters a listener added with AddListener
func (h *Hub) RemoveListener(listener chan *Message) {
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

// notifyListeners fans an inbound client message out without blocking
func (h *Hub) notifyListeners(msg *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()
	for _, l := range h.listeners {
		select {
		case l <- msg:
		default:
			h.logger.Warn().Msg("Skipped slow message listener")
		}
	}
}
