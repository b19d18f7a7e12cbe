package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
)

// ResumeController handles member resume uploads
type ResumeController struct {
	resumeService services.ResumeService
}

// NewResumeController creates a new ResumeController
func NewResumeController(resumeService services.ResumeService) *ResumeController {
	return &ResumeController{resumeService: resumeService}
}

// Upload godoc
// @Summary Upload a resume
// @Description The upload also becomes the member's current resume.
// @Tags resumes
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param resume formData file true "Resume (pdf, doc, docx)"
// @Success 201 {object} models.Resume
// @Failure 400 {object} dto.ErrorResponse
// @Router /members/resumes [post]
func (c *ResumeController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("resume")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("A resume file is required"))
		return
	}
	resume, err := c.resumeService.Upload(ctx.Request.Context(), middleware.CurrentUserID(ctx), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resume)
}

// List godoc
// @Summary List the caller's resumes
// @Tags resumes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Resume
// @Router /members/resumes [get]
func (c *ResumeController) List(ctx *gin.Context) {
	resumes, err := c.resumeService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resumes)
}

// Delete godoc
// @Summary Delete a resume
// @Tags resumes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resume ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/resumes/{id} [delete]
func (c *ResumeController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "resume")
	if !ok {
		return
	}
	if err := c.resumeService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Resume")
}
