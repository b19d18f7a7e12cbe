package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
)

// FreelanceController handles freelance service listings
type FreelanceController struct {
	freelanceService services.FreelanceService
}

// NewFreelanceController creates a new FreelanceController
func NewFreelanceController(freelanceService services.FreelanceService) *FreelanceController {
	return &FreelanceController{freelanceService: freelanceService}
}

// List godoc
// @Summary List freelance services
// @Tags freelance
// @Produce json
// @Param serviceTypeId query int false "Service type"
// @Param search query string false "Search in title and description"
// @Success 200 {array} models.FreelanceService
// @Router /freelance-services [get]
func (c *FreelanceController) List(ctx *gin.Context) {
	filter := repositories.FreelanceFilter{
		ServiceTypeID: queryID(ctx, "serviceTypeId"),
		Search:        strings.TrimSpace(ctx.Query("search")),
	}
	listings, err := c.freelanceService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, listings)
}

// Mine godoc
// @Summary List the caller's freelance services
// @Tags freelance
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FreelanceService
// @Router /freelance-services/mine [get]
func (c *FreelanceController) Mine(ctx *gin.Context) {
	listings, err := c.freelanceService.Mine(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, listings)
}

// Get godoc
// @Summary Get a freelance service
// @Tags freelance
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} models.FreelanceService
// @Failure 404 {object} dto.ErrorResponse
// @Router /freelance-services/{id} [get]
func (c *FreelanceController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "service")
	if !ok {
		return
	}
	svc, err := c.freelanceService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, svc)
}

// Create godoc
// @Summary Offer a freelance service
// @Tags freelance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFreelanceRequest true "Service"
// @Success 201 {object} models.FreelanceService
// @Failure 400 {object} dto.ErrorResponse
// @Router /freelance-services [post]
func (c *FreelanceController) Create(ctx *gin.Context) {
	var req dto.CreateFreelanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	svc, err := c.freelanceService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, svc)
}

// Update godoc
// @Summary Edit a freelance service
// @Description Owner or admin.
// @Tags freelance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Param request body dto.UpdateFields true "Fields to change"
// @Success 200 {object} models.FreelanceService
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /freelance-services/{id} [put]
func (c *FreelanceController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "service")
	if !ok {
		return
	}
	fields, ok := bindFields(ctx)
	if !ok {
		return
	}
	svc, err := c.freelanceService.Update(ctx.Request.Context(), identity(ctx), id, fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, svc)
}

// Delete godoc
// @Summary Delete a freelance service
// @Description Owner or admin.
// @Tags freelance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /freelance-services/{id} [delete]
func (c *FreelanceController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "service")
	if !ok {
		return
	}
	if err := c.freelanceService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Freelance service")
}
