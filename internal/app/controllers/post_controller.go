package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// PostController handles the feed, post interactions and comments
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{postService: postService}
}

// List godoc
// @Summary List the feed
// @Description Newest first. Each post carries its author, like/follow/share/comment counts and the caller's liked and followed flags.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.Post]
// @Failure 401 {object} dto.ErrorResponse
// @Router /posts [get]
func (c *PostController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.postService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id} [get]
func (c *PostController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "post")
	if !ok {
		return
	}
	post, err := c.postService.Get(ctx.Request.Context(), id, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

// Create godoc
// @Summary Create a post
// @Description Accepts JSON, or multipart with optional image and video files.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} dto.ErrorResponse
// @Router /posts [post]
func (c *PostController) Create(ctx *gin.Context) {
	var req dto.CreatePostRequest
	var media services.PostMedia

	if ctx.ContentType() == gin.MIMEMultipartPOSTForm {
		if !middleware.Bind(ctx, &req) {
			return
		}
		media.Image, _ = ctx.FormFile("image")
		media.Video, _ = ctx.FormFile("video")
	} else if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req, media)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, post)
}

// Update godoc
// @Summary Edit a post
// @Description Owner only. Allow-listed fields: content, image_url, video_url.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.UpdateFields true "Fields to change"
// @Success 200 {object} models.Post
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id} [put]
func (c *PostController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "post")
	if !ok {
		return
	}
	fields, ok := bindFields(ctx)
	if !ok {
		return
	}

	post, err := c.postService.Update(ctx.Request.Context(), identity(ctx), id, fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete a post
// @Description Owner only. Comments, likes, follows and shares go with it.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id} [delete]
func (c *PostController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "post")
	if !ok {
		return
	}
	if err := c.postService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Post")
}

// Like godoc
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.LikeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id}/like [post]
func (c *PostController) Like(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "post")
	if !ok {
		return
	}
	liked, err := c.postService.ToggleLike(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.LikeResponse{Liked: liked})
}

// Follow godoc
// @Summary Follow or unfollow a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.FollowResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id}/follow [post]
func (c *PostController) Follow(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "post")
	if !ok {
		return
	}
	followed, err := c.postService.ToggleFollow(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.FollowResponse{Followed: followed})
}

// Share godoc
// @Summary Share a post
// @Description A member can share a post once.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 201 {object} dto.ShareResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Post already shared"
// @Router /posts/{id}/share [post]
func (c *PostController) Share(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "post")
	if !ok {
		return
	}
	count, err := c.postService.Share(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ShareResponse{Shared: true, ShareCount: count})
}

// ListComments godoc
// @Summary List a post's comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id}/comments [get]
func (c *PostController) ListComments(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "post")
	if !ok {
		return
	}
	comments, err := c.postService.ListComments(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comments)
}

// AddComment godoc
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.ContentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id}/comments [post]
func (c *PostController) AddComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "post")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	comment, err := c.postService.AddComment(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}

// UpdateComment godoc
// @Summary Edit a comment
// @Description Comment owner only.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.ContentRequest true "Comment"
// @Success 200 {object} models.Comment
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /comments/{id} [put]
func (c *PostController) UpdateComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "comment")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	comment, err := c.postService.UpdateComment(ctx.Request.Context(), identity(ctx), id, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Comment owner only.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /comments/{id} [delete]
func (c *PostController) DeleteComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "comment")
	if !ok {
		return
	}
	if err := c.postService.DeleteComment(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Comment")
}
