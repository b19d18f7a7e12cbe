package websocket

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

// MembershipChecker reports whether a user belongs to a study circle.
// Unknown circles yield apperrors.ErrResourceNotFound.
type MembershipChecker interface {
	IsMember(ctx context.Context, circleID, userID int64) (bool, error)
}

// Handler upgrades study circle chat connections
type Handler struct {
	hub      *Hub
	members  MembershipChecker
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, members MembershipChecker, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		members:  members,
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Open the study circle chat socket
// @Description Upgrades to a WebSocket that streams the circle's chat. Browsers may pass the JWT as ?token=.
// @Tags study-circles
// @Security BearerAuth
// @Param id path int true "Study circle ID"
// @Param token query string false "JWT access token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /study-circles/{id}/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	circleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || circleID <= 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid study circle ID"))
		return
	}

	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
		return
	}

	isMember, err := h.members.IsMember(c.Request.Context(), circleID, userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if !isMember {
		middleware.HandleAPIError(c, apperrors.NewForbiddenError("Only members can join the circle chat"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).
			Int64("circleID", circleID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   userID,
		circleID: circleID,
		logger:   h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
