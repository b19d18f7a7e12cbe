package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// contentQueryFilters maps accepted query parameters to content columns
var contentQueryFilters = map[string]string{
	"programTypeId": "program_type_id",
}

// ContentController serves the curated content kinds. Each handler is bound
// to one kind when the routes are registered.
type ContentController struct {
	contentService services.ContentService
}

// NewContentController creates a new ContentController
func NewContentController(contentService services.ContentService) *ContentController {
	return &ContentController{contentService: contentService}
}

func label(kind string) string {
	k, err := repositories.LookupContentKind(kind)
	if err != nil {
		return "Item"
	}
	return k.Label
}

// List godoc
// @Summary List curated content
// @Description Served at /news, /mini-courses, /summer-programs and /job-fairs.
// @Tags content
// @Produce json
// @Param search query string false "Search in titles"
// @Param programTypeId query int false "Program type (summer programs only)"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.ContentRow]
// @Router /news [get]
// @Router /mini-courses [get]
// @Router /summer-programs [get]
// @Router /job-fairs [get]
func (c *ContentController) List(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		filters := map[string]any{}
		for param, col := range contentQueryFilters {
			if id := queryID(ctx, param); id != nil {
				filters[col] = *id
			}
		}
		if search := strings.TrimSpace(ctx.Query("search")); search != "" {
			filters["search"] = search
		}

		page, size := helpers.ParsePaginationParams(ctx)
		result, err := c.contentService.List(ctx.Request.Context(), kind, filters, page, size)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}

// Get godoc
// @Summary Get a curated content item
// @Tags content
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} models.ContentRow
// @Failure 404 {object} dto.ErrorResponse
// @Router /news/{id} [get]
// @Router /mini-courses/{id} [get]
// @Router /summer-programs/{id} [get]
// @Router /job-fairs/{id} [get]
func (c *ContentController) Get(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := parseID(ctx, "id", "item")
		if !ok {
			return
		}
		row, err := c.contentService.Get(ctx.Request.Context(), kind, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, row)
	}
}

// Create godoc
// @Summary Create a curated content item
// @Description Keys outside the kind's column list are ignored. title is required.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateFields true "Columns"
// @Success 201 {object} models.ContentRow
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/news [post]
// @Router /admin/mini-courses [post]
// @Router /admin/summer-programs [post]
// @Router /admin/job-fairs [post]
func (c *ContentController) Create(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fields, ok := bindFields(ctx)
		if !ok {
			return
		}
		row, err := c.contentService.Create(ctx.Request.Context(), kind, fields)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, row)
	}
}

// Update godoc
// @Summary Edit a curated content item
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param request body dto.UpdateFields true "Columns to change"
// @Success 200 {object} models.ContentRow
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/news/{id} [put]
// @Router /admin/mini-courses/{id} [put]
// @Router /admin/summer-programs/{id} [put]
// @Router /admin/job-fairs/{id} [put]
func (c *ContentController) Update(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := parseID(ctx, "id", "item")
		if !ok {
			return
		}
		fields, ok := bindFields(ctx)
		if !ok {
			return
		}
		row, err := c.contentService.Update(ctx.Request.Context(), kind, id, fields)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, row)
	}
}

// Delete godoc
// @Summary Delete a curated content item
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/news/{id} [delete]
// @Router /admin/mini-courses/{id} [delete]
// @Router /admin/summer-programs/{id} [delete]
// @Router /admin/job-fairs/{id} [delete]
func (c *ContentController) Delete(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := parseID(ctx, "id", "item")
		if !ok {
			return
		}
		if err := c.contentService.Delete(ctx.Request.Context(), kind, id); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		deleted(ctx, label(kind))
	}
}
