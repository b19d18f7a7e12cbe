package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// JobController handles the public job board and its admin management
type JobController struct {
	jobService services.JobService
}

// NewJobController creates a new JobController
func NewJobController(jobService services.JobService) *JobController {
	return &JobController{jobService: jobService}
}

func jobFilter(ctx *gin.Context) models.JobFilter {
	return models.JobFilter{
		CategoryID: queryID(ctx, "categoryId"),
		JobType:    strings.TrimSpace(ctx.Query("jobType")),
		City:       strings.TrimSpace(ctx.Query("city")),
		State:      strings.TrimSpace(ctx.Query("state")),
		Country:    strings.TrimSpace(ctx.Query("country")),
		Search:     strings.TrimSpace(ctx.Query("search")),
	}
}

// List godoc
// @Summary Search open jobs
// @Description Only active jobs that have not expired.
// @Tags jobs
// @Produce json
// @Param categoryId query int false "Job category"
// @Param jobType query string false "Job type"
// @Param city query string false "City"
// @Param state query string false "State"
// @Param country query string false "Country"
// @Param search query string false "Search in title, company and description"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.Job]
// @Router /jobs [get]
func (c *JobController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.jobService.ListPublic(ctx.Request.Context(), jobFilter(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get an open job
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.Job
// @Failure 404 {object} dto.ErrorResponse
// @Router /jobs/{id} [get]
func (c *JobController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "job")
	if !ok {
		return
	}
	job, err := c.jobService.GetPublic(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, job)
}

// AdminList godoc
// @Summary List every job
// @Description Includes inactive and expired postings.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.Job]
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/jobs [get]
func (c *JobController) AdminList(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.jobService.ListAll(ctx.Request.Context(), jobFilter(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Post a job
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Job"
// @Success 201 {object} models.Job
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/jobs [post]
func (c *JobController) Create(ctx *gin.Context) {
	var req dto.CreateJobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	job, err := c.jobService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, job)
}

// Update godoc
// @Summary Edit a job
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body dto.UpdateFields true "Fields to change"
// @Success 200 {object} models.Job
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/jobs/{id} [put]
func (c *JobController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "job")
	if !ok {
		return
	}
	fields, ok := bindFields(ctx)
	if !ok {
		return
	}
	job, err := c.jobService.Update(ctx.Request.Context(), id, fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, job)
}

// SetActive godoc
// @Summary Activate or deactivate a job
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body dto.SetActiveRequest true "Visibility"
// @Success 200 {object} models.Job
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/jobs/{id}/active [patch]
func (c *JobController) SetActive(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "job")
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	job, err := c.jobService.SetActive(ctx.Request.Context(), id, *req.IsActive)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, job)
}

// Delete godoc
// @Summary Delete a job
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/jobs/{id} [delete]
func (c *JobController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "job")
	if !ok {
		return
	}
	if err := c.jobService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Job")
}
