package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// ArticleController handles articles
type ArticleController struct {
	articleService services.ArticleService
}

// NewArticleController creates a new ArticleController
func NewArticleController(articleService services.ArticleService) *ArticleController {
	return &ArticleController{articleService: articleService}
}

// List godoc
// @Summary List articles
// @Description Newest first with like counts. liked is set when a token is sent.
// @Tags articles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.Article]
// @Router /articles [get]
func (c *ArticleController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.articleService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get an article
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} models.Article
// @Failure 404 {object} dto.ErrorResponse
// @Router /articles/{id} [get]
func (c *ArticleController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "article")
	if !ok {
		return
	}
	article, err := c.articleService.Get(ctx.Request.Context(), id, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, article)
}

// Like godoc
// @Summary Like or unlike an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} dto.LikeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /articles/{id}/like [post]
func (c *ArticleController) Like(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "article")
	if !ok {
		return
	}
	liked, err := c.articleService.ToggleLike(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.LikeResponse{Liked: liked})
}

// Create godoc
// @Summary Publish an article
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateArticleRequest true "Article"
// @Success 201 {object} models.Article
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/articles [post]
func (c *ArticleController) Create(ctx *gin.Context) {
	var req dto.CreateArticleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	article, err := c.articleService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, article)
}

// Update godoc
// @Summary Edit an article
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param request body dto.UpdateFields true "Fields to change"
// @Success 200 {object} models.Article
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/articles/{id} [put]
func (c *ArticleController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "article")
	if !ok {
		return
	}
	fields, ok := bindFields(ctx)
	if !ok {
		return
	}
	article, err := c.articleService.Update(ctx.Request.Context(), id, fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, article)
}

// Delete godoc
// @Summary Delete an article
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} dto.MessageResponse
// @Router /admin/articles/{id} [delete]
func (c *ArticleController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "article")
	if !ok {
		return
	}
	if err := c.articleService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Article")
}
