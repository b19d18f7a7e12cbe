package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/middleware"
)

// Messages of the email driven flows
const (
	MsgResetEmailSent = "If the email is registered, a password reset link has been sent"
	MsgPasswordReset  = "Password has been reset successfully"
	MsgUnsubscribed   = "You have been unsubscribed from emails"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles user registration
// @Summary Register a new user
// @Description Creates an account, sends a welcome email and returns a 7 day access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Signin handles user login
// @Summary Sign in
// @Description Authenticates with email and password. Rate limited per client IP.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SigninRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/signin [post]
func (c *AuthController) Signin(ctx *gin.Context) {
	var req dto.SigninRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Signin(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GoogleSignin handles sign in with a Google ID token
// @Summary Sign in with Google
// @Description Verifies the ID token, then finds the account by Google subject or email, creating one when needed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleSigninRequest true "Google ID token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid Google token"
// @Router /auth/google [post]
func (c *AuthController) GoogleSignin(ctx *gin.Context) {
	var req dto.GoogleSigninRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.GoogleSignin(ctx.Request.Context(), req.IDToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Description Always answers 200 so that registered addresses cannot be discovered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: MsgResetEmailSent})
}

// ResetPassword godoc
// @Summary Reset the password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired reset token"
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), req.Token, req.Password); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: MsgPasswordReset})
}

// Unsubscribe godoc
// @Summary Unsubscribe from emails
// @Description Target of the link in every email footer.
// @Tags auth
// @Produce json
// @Param token query string true "Unsubscribe token"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/unsubscribe [get]
func (c *AuthController) Unsubscribe(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("token is required"))
		return
	}

	if err := c.authService.Unsubscribe(ctx.Request.Context(), token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: MsgUnsubscribed})
}
