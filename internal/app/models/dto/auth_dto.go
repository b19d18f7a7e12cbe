package dto

import "github.com/ypropel/backend/internal/app/models"

// SignupRequest creates an account with email and password
type SignupRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SigninRequest represents login credentials
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleSigninRequest carries the identity provider's ID token
type GoogleSigninRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// ForgotPasswordRequest starts the reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the reset flow
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// ChangePasswordRequest changes the password of the signed in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// AuthResponse is returned by every successful sign in
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}
