package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// DiscussionController handles discussion topics
type DiscussionController struct {
	discussionService services.DiscussionService
}

// NewDiscussionController creates a new DiscussionController
func NewDiscussionController(discussionService services.DiscussionService) *DiscussionController {
	return &DiscussionController{discussionService: discussionService}
}

// List godoc
// @Summary List discussion topics
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.DiscussionTopic]
// @Router /discussion_topics [get]
func (c *DiscussionController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.discussionService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Query("category"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get a discussion topic
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Success 200 {object} models.DiscussionTopic
// @Failure 404 {object} dto.ErrorResponse
// @Router /discussion_topics/{id} [get]
func (c *DiscussionController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "topic")
	if !ok {
		return
	}
	topic, err := c.discussionService.Get(ctx.Request.Context(), id, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// Create godoc
// @Summary Start a discussion topic
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTopicRequest true "Topic"
// @Success 201 {object} models.DiscussionTopic
// @Failure 400 {object} dto.ErrorResponse
// @Router /discussion_topics [post]
func (c *DiscussionController) Create(ctx *gin.Context) {
	var req dto.CreateTopicRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	topic, err := c.discussionService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, topic)
}

// Update godoc
// @Summary Edit a discussion topic
// @Description Owner only. Allow-listed fields: title, content, category.
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Param request body dto.UpdateFields true "Fields to change"
// @Success 200 {object} models.DiscussionTopic
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /discussion_topics/{id} [put]
func (c *DiscussionController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "topic")
	if !ok {
		return
	}
	fields, ok := bindFields(ctx)
	if !ok {
		return
	}
	topic, err := c.discussionService.Update(ctx.Request.Context(), identity(ctx), id, fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// Delete godoc
// @Summary Delete a discussion topic
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /discussion_topics/{id} [delete]
func (c *DiscussionController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "topic")
	if !ok {
		return
	}
	if err := c.discussionService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Discussion topic")
}

// Like godoc
// @Summary Like or unlike a topic
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Success 200 {object} dto.LikeResponse
// @Router /discussion_topics/{id}/like [post]
func (c *DiscussionController) Like(ctx *gin.Context) {
	c.toggle(ctx, c.discussionService.ToggleLike, func(on bool) any { return dto.LikeResponse{Liked: on} })
}

// Follow godoc
// @Summary Follow or unfollow a topic
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Success 200 {object} dto.FollowResponse
// @Router /discussion_topics/{id}/follow [post]
func (c *DiscussionController) Follow(ctx *gin.Context) {
	c.toggle(ctx, c.discussionService.ToggleFollow, func(on bool) any { return dto.FollowResponse{Followed: on} })
}

// Upvote godoc
// @Summary Upvote or remove the upvote of a topic
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Success 200 {object} dto.UpvoteResponse
// @Router /discussion_topics/{id}/upvote [post]
func (c *DiscussionController) Upvote(ctx *gin.Context) {
	c.toggle(ctx, c.discussionService.ToggleUpvote, func(on bool) any { return dto.UpvoteResponse{Upvoted: on} })
}

type toggleFunc func(ctx context.Context, userID, resourceID int64) (bool, error)

func (c *DiscussionController) toggle(ctx *gin.Context, fn toggleFunc, render func(bool) any) {
	id, ok := parseID(ctx, "id", "topic")
	if !ok {
		return
	}
	on, err := fn(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, render(on))
}

// ListComments godoc
// @Summary List a topic's comments
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Success 200 {array} models.Comment
// @Router /discussion_topics/{id}/comments [get]
func (c *DiscussionController) ListComments(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "topic")
	if !ok {
		return
	}
	comments, err := c.discussionService.ListComments(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comments)
}

// AddComment godoc
// @Summary Comment on a topic
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Param request body dto.ContentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Router /discussion_topics/{id}/comments [post]
func (c *DiscussionController) AddComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "topic")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	comment, err := c.discussionService.AddComment(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}
