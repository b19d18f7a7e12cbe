package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/export"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// AdminController handles member administration
type AdminController struct {
	adminService services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{adminService: adminService, logger: logger}
}

// ListUsers godoc
// @Summary List members
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name or email"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.User]
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := dto.UserFilter{Search: strings.TrimSpace(ctx.Query("search")), Page: page, Size: size}

	result, err := c.adminService.ListUsers(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ExportUsers godoc
// @Summary Export members as a spreadsheet
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/users/export [get]
func (c *AdminController) ExportUsers(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.adminService.ExportUsers(ctx.Request.Context(), &buf); err != nil {
		c.logger.Error().Err(err).Msg("User export failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, export.XLSXContentType, buf.Bytes())
}

// SetAdmin godoc
// @Summary Grant or revoke admin rights
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.SetAdminRequest true "Admin flag"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/users/{id}/admin [put]
func (c *AdminController) SetAdmin(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "user")
	if !ok {
		return
	}
	var req dto.SetAdminRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := c.adminService.SetAdmin(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, *req.IsAdmin); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Admin rights updated"})
}

// DeleteUser godoc
// @Summary Delete a member
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "user")
	if !ok {
		return
	}
	if err := c.adminService.DeleteUser(ctx.Request.Context(), middleware.CurrentUserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "User")
}

// Stats godoc
// @Summary Row counts per resource
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Stats
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.adminService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
