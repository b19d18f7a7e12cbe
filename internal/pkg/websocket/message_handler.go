package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
)

// MessageStore persists chat lines posted over the socket
type MessageStore interface {
	CreateMessage(ctx context.Context, circleID, userID int64, content string) (*models.CircleMessage, error)
}

// MessageHandler persists inbound socket frames and re-broadcasts the stored row
type MessageHandler struct {
	store  MessageStore
	hub    *Hub
	inbox  chan *Message
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(store MessageStore, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		store:  store,
		hub:    hub,
		inbox:  make(chan *Message, 64),
		logger: logger,
	}
}

// Start attaches the handler to the hub and processes frames until the hub closes
func (h *MessageHandler) Start() {
	h.hub.AddMessageListener(h.inbox)
	go h.processMessages()
}

func (h *MessageHandler) processMessages() {
	defer h.hub.RemoveMessageListener(h.inbox)
	for {
		select {
		case message := <-h.inbox:
			h.persistAndBroadcast(message)
		case <-h.hub.done:
			return
		}
	}
}

func (h *MessageHandler) persistAndBroadcast(message *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stored, err := h.store.CreateMessage(ctx, message.CircleID, message.SenderID, message.Content)
	if err != nil {
		h.logger.Error().Err(err).
			Int64("circleID", message.CircleID).
			Int64("senderID", message.SenderID).
			Msg("Failed to save WebSocket message")
		return
	}

	h.logger.Debug().
		Int64("messageID", stored.ID).
		Int64("circleID", stored.CircleID).
		Msg("WebSocket message saved")
	h.hub.Broadcast(FromCircleMessage(stored))
}
