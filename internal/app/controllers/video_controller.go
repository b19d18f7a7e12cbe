package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// VideoController handles member videos
type VideoController struct {
	videoService services.VideoService
}

// NewVideoController creates a new VideoController
func NewVideoController(videoService services.VideoService) *VideoController {
	return &VideoController{videoService: videoService}
}

// ShareCountResponse reports a video's share counter
type ShareCountResponse struct {
	ShareCount int `json:"shareCount"`
}

// List godoc
// @Summary List videos
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.Video]
// @Router /api/videos [get]
func (c *VideoController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.videoService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Upload godoc
// @Summary Upload a video
// @Tags videos
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param video formData file true "Video file"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Success 201 {object} models.Video
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/videos [post]
func (c *VideoController) Upload(ctx *gin.Context) {
	var req dto.CreateVideoRequest
	if !middleware.Bind(ctx, &req) {
		return
	}
	file, err := ctx.FormFile("video")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("A video file is required"))
		return
	}
	video, err := c.videoService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, video)
}

// Delete godoc
// @Summary Delete a video
// @Description Owner only.
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/videos/{id} [delete]
func (c *VideoController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "video")
	if !ok {
		return
	}
	if err := c.videoService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Video")
}

// Like godoc
// @Summary Like or unlike a video
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} dto.LikeResponse
// @Router /api/videos/{id}/like [post]
func (c *VideoController) Like(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "video")
	if !ok {
		return
	}
	liked, err := c.videoService.ToggleLike(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.LikeResponse{Liked: liked})
}

// Share godoc
// @Summary Count a share of a video
// @Description Every call increments the counter.
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} ShareCountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/videos/{id}/share [post]
func (c *VideoController) Share(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "video")
	if !ok {
		return
	}
	count, err := c.videoService.Share(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ShareCountResponse{ShareCount: count})
}
