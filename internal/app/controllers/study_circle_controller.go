package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// StudyCircleController handles study circles and their chat history
type StudyCircleController struct {
	circleService services.StudyCircleService
}

// NewStudyCircleController creates a new StudyCircleController
func NewStudyCircleController(circleService services.StudyCircleService) *StudyCircleController {
	return &StudyCircleController{circleService: circleService}
}

// List godoc
// @Summary List study circles
// @Description Public circles plus the private circles the caller belongs to.
// @Tags study-circles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.StudyCircle
// @Router /study-circles [get]
func (c *StudyCircleController) List(ctx *gin.Context) {
	circles, err := c.circleService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, circles)
}

// Get godoc
// @Summary Get a study circle with its members
// @Tags study-circles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle ID"
// @Success 200 {object} models.StudyCircle
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /study-circles/{id} [get]
func (c *StudyCircleController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "circle")
	if !ok {
		return
	}
	circle, err := c.circleService.Get(ctx.Request.Context(), id, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, circle)
}

// Create godoc
// @Summary Create a study circle
// @Description The creator and the listed members join the circle in one transaction.
// @Tags study-circles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCircleRequest true "Circle"
// @Success 201 {object} models.StudyCircle
// @Failure 400 {object} dto.ErrorResponse
// @Router /study-circles [post]
func (c *StudyCircleController) Create(ctx *gin.Context) {
	var req dto.CreateCircleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	circle, err := c.circleService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, circle)
}

// Update godoc
// @Summary Edit a study circle
// @Description Creator only. Allow-listed fields: name, description, is_public.
// @Tags study-circles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle ID"
// @Param request body dto.UpdateFields true "Fields to change"
// @Success 200 {object} models.StudyCircle
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /study-circles/{id} [put]
func (c *StudyCircleController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "circle")
	if !ok {
		return
	}
	fields, ok := bindFields(ctx)
	if !ok {
		return
	}
	circle, err := c.circleService.Update(ctx.Request.Context(), identity(ctx), id, fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, circle)
}

// Delete godoc
// @Summary Delete a study circle
// @Description Creator only. Messages and memberships go with it.
// @Tags study-circles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /study-circles/{id} [delete]
func (c *StudyCircleController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "circle")
	if !ok {
		return
	}
	if err := c.circleService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Study circle")
}

// Join godoc
// @Summary Join or leave a study circle
// @Tags study-circles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle ID"
// @Success 200 {object} dto.JoinResponse
// @Failure 400 {object} dto.ErrorResponse "Creator cannot leave"
// @Failure 403 {object} dto.ErrorResponse "Private circle"
// @Router /study-circles/{id}/join [post]
func (c *StudyCircleController) Join(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "circle")
	if !ok {
		return
	}
	joined, err := c.circleService.ToggleJoin(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.JoinResponse{Joined: joined})
}

// ListMessages godoc
// @Summary Circle chat history
// @Description Members only, oldest first.
// @Tags study-circles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} models.CircleMessage
// @Failure 403 {object} dto.ErrorResponse
// @Router /study-circles/{id}/messages [get]
func (c *StudyCircleController) ListMessages(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "circle")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	messages, err := c.circleService.ListMessages(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, messages)
}

// PostMessage godoc
// @Summary Post to the circle chat
// @Description Members only. The message is also pushed to connected sockets.
// @Tags study-circles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle ID"
// @Param request body dto.ContentRequest true "Message"
// @Success 201 {object} models.CircleMessage
// @Failure 403 {object} dto.ErrorResponse
// @Router /study-circles/{id}/messages [post]
func (c *StudyCircleController) PostMessage(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "circle")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	msg, err := c.circleService.PostMessage(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}
