package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Inbound message types
const (
	ClientMarkSeen    = "mark_seen"
	ClientMarkAllSeen = "mark_all_seen"
)

// SeenMarker persists read receipts sent over the socket
type SeenMarker interface {
	MarkSeen(ctx context.Context, userID, notificationID string) error
	MarkAllSeen(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

// MessageHandler applies read receipts received from clients and answers
// with the fresh unread count
type MessageHandler struct {
	marker SeenMarker
	hub    *Hub
	inbox  chan *Message
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(marker SeenMarker, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		marker: marker,
		hub:    hub,
		inbox:  make(chan *Message, 64),
		logger: logger,
	}
}

// Start begins consuming client messages
func (h *MessageHandler) Start() {
	h.hub.AddListener(h.inbox)
	go func() {
		for msg := range h.inbox {
			h.Handle(msg)
		}
	}()
}

// Stop detaches from the hub
func (h *MessageHandler) Stop() {
	h.hub.RemoveListener(h.inbox)
	close(h.inbox)
}

// Handle processes one client message
func (h *MessageHandler) Handle(msg *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	switch msg.Type {
	case ClientMarkSeen:
		var body struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(msg.Data, &body); err == nil {
			err = h.marker.MarkSeen(ctx, msg.UserID, body.ID)
		}
	case ClientMarkAllSeen:
		err = h.marker.MarkAllSeen(ctx, msg.UserID)
	default:
		return
	}
	if err != nil {
		h.logger.Warn().Err(err).Str("userID", msg.UserID).Str("type", msg.Type).Msg("Client receipt not applied")
		return
	}

	count, err := h.marker.UnreadCount(ctx, msg.UserID)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", msg.UserID).Msg("Failed to count unread notifications")
		return
	}
	h.hub.SendToUser(msg.UserID, EventUnreadCount, map[string]int{"count": count})
}
