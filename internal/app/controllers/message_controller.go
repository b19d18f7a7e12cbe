package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// MessageController handles direct messages
type MessageController struct {
	messageService services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// Send godoc
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Receiver not found"
// @Router /messages [post]
func (c *MessageController) Send(ctx *gin.Context) {
	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	msg, err := c.messageService.Send(ctx.Request.Context(), middleware.CurrentUserID(ctx), req.ReceiverID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}

// Conversations godoc
// @Summary List conversations
// @Description One row per peer with the last message and the unread count.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Conversation
// @Router /messages/conversations [get]
func (c *MessageController) Conversations(ctx *gin.Context) {
	conversations, err := c.messageService.Conversations(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, conversations)
}

// Thread godoc
// @Summary Messages exchanged with a member
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Peer user ID"
// @Param markRead query bool false "Mark incoming messages as read"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} models.Message
// @Router /messages/with/{userId} [get]
func (c *MessageController) Thread(ctx *gin.Context) {
	peerID, ok := parseID(ctx, "userId", "user")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	markRead := ctx.Query("markRead") == "true"

	messages, err := c.messageService.Thread(ctx.Request.Context(), middleware.CurrentUserID(ctx), peerID, markRead, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, messages)
}

// MarkRead godoc
// @Summary Mark a message as read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/{id}/read [put]
func (c *MessageController) MarkRead(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "message")
	if !ok {
		return
	}
	msg, err := c.messageService.MarkRead(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, msg)
}

// UnreadCount godoc
// @Summary Count unread direct messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UnreadCountResponse
// @Router /messages/unread-count [get]
func (c *MessageController) UnreadCount(ctx *gin.Context) {
	n, err := c.messageService.UnreadCount(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: n})
}
