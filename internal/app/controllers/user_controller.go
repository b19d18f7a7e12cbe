package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// UserController handles member profile operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetMe godoc
// @Summary Get the signed in member's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	user, err := c.userService.GetMe(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the signed in member's profile
// @Description Only allow-listed columns are written: name, title, university, major_id, experience_level_id, graduation_year, city, state, country, bio, linkedin_url, phone, is_student, photo_url.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateFields true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} dto.ErrorResponse "No valid fields to update or invalid major_id"
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/me [put]
func (c *UserController) UpdateMe(ctx *gin.Context) {
	fields, ok := bindFields(ctx)
	if !ok {
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// UpdatePhoto godoc
// @Summary Upload a profile photo
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Image file"
// @Success 200 {object} models.User
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/me/photo [post]
func (c *UserController) UpdatePhoto(ctx *gin.Context) {
	photo, err := ctx.FormFile("photo")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("photo is required"))
		return
	}

	user, err := c.userService.UpdatePhoto(ctx.Request.Context(), middleware.CurrentUserID(ctx), photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Current password is incorrect"
// @Router /users/me/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.userService.ChangePassword(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed successfully"})
}

// GetProfile godoc
// @Summary Get a member's public profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.PublicUser
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "user")
	if !ok {
		return
	}

	profile, err := c.userService.GetPublicProfile(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// Directory godoc
// @Summary Search the member directory
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email or university"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.PublicUser]
// @Router /users [get]
func (c *UserController) Directory(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.userService.Directory(ctx.Request.Context(), dto.UserFilter{
		Search: ctx.Query("search"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
