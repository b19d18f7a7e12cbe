package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
)

// LookupController serves the reference lists used by forms
type LookupController struct {
	lookupService services.LookupService
}

// NewLookupController creates a new LookupController
func NewLookupController(lookupService services.LookupService) *LookupController {
	return &LookupController{lookupService: lookupService}
}

// List godoc
// @Summary List a reference table
// @Description Served at /majors, /experience-levels, /us-states, /cities, /countries, /program-types, /service-types and /job-categories.
// @Tags lookups
// @Produce json
// @Param state query string false "State (cities only)"
// @Success 200 {array} models.LookupItem
// @Router /majors [get]
// @Router /cities [get]
// @Router /job-categories [get]
func (c *LookupController) List(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		filters := map[string]string{"state": ctx.Query("state")}
		items, err := c.lookupService.List(ctx.Request.Context(), kind, filters)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, items)
	}
}

// Create godoc
// @Summary Add a reference table row
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLookupRequest true "Row"
// @Success 201 {object} models.LookupItem
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/job-categories [post]
func (c *LookupController) Create(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req dto.CreateLookupRequest
		if !middleware.BindJSON(ctx, &req) {
			return
		}
		item, err := c.lookupService.Create(ctx.Request.Context(), kind, req.Name)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, item)
	}
}
