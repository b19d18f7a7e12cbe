package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/email"
)

// Client facing auth messages
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgInvalidResetToken  = "Invalid or expired reset token"
	MsgResetTokenUsed     = "This reset link has already been used"
	MsgInvalidUnsubscribe = "Invalid or expired unsubscribe link"
	MsgInvalidGoogleToken = "Invalid Google token"
)

// AuthService handles sign up, sign in and the token based email flows
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Signin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error)
	GoogleSignin(ctx context.Context, idToken string) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, token, password string) error
	Unsubscribe(ctx context.Context, token string) error
}

type authServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   TokenIssuer
	google   auth.IdentityVerifier
	email    email.EmailService
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	tokens TokenIssuer,
	google auth.IdentityVerifier,
	emailService email.EmailService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		google:   google,
		email:    emailService,
		logger:   logger,
	}
}

func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func (s *authServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(auth.Identity{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: user, Token: token}, nil
}

// Signup creates the account and sends a welcome email. A failed email does
// not fail the sign up.
func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already registered")
		}
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User signed up")
	s.sendWelcome(user)

	return s.issue(user)
}

func (s *authServiceImpl) sendWelcome(user *models.User) {
	if s.email == nil {
		return
	}
	if err := s.email.SendWelcomeEmail(user.Email, user.Name); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}
}

func (s *authServiceImpl) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError(MsgInvalidCredentials)
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Password mismatch")
		return nil, apperrors.NewUnauthorizedError(MsgInvalidCredentials)
	}
	return s.issue(user)
}

// GoogleSignin finds the account by Google subject, then by email (linking
// it), and provisions a new account otherwise.
func (s *authServiceImpl) GoogleSignin(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	if s.google == nil {
		return nil, apperrors.NewBadRequestError("Google sign in is not configured")
	}
	profile, err := s.google.Verify(idToken)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Google token rejected")
		return nil, apperrors.NewUnauthorizedError(MsgInvalidGoogleToken)
	}

	user, err := s.userRepo.GetByGoogleID(ctx, profile.Sub)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	emailAddr := normalizeEmail(profile.Email)
	user, err = s.userRepo.GetByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		if err := s.userRepo.LinkGoogleID(ctx, user.ID, profile.Sub); err != nil {
			return nil, err
		}
		user.GoogleID = &profile.Sub
		return s.issue(user)
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return nil, err
	}

	password, err := auth.RandomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = strings.Split(emailAddr, "@")[0]
	}
	sub := profile.Sub
	user = &models.User{Name: name, Email: emailAddr, PasswordHash: hash, GoogleID: &sub}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User provisioned from Google")
	s.sendWelcome(user)
	return s.issue(user)
}

// ForgotPassword never reveals whether the address is registered
func (s *authServiceImpl) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := s.tokens.GenerateResetToken(user.ID, user.Email)
	if err != nil {
		return err
	}
	if s.email != nil {
		if err := s.email.SendPasswordResetEmail(user.Email, user.Name, token); err != nil {
			s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send password reset email")
		}
	}
	return nil
}

// ResetPassword sets a new password from a reset link. A link is good for
// one change: any password change at or after its issue time retires it.
func (s *authServiceImpl) ResetPassword(ctx context.Context, token, password string) error {
	userID, issuedAt, err := s.tokens.ValidateResetToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return apperrors.NewCustomError(apperrors.ErrTokenExpired, MsgInvalidResetToken)
		}
		return apperrors.NewCustomError(apperrors.ErrTokenInvalid, MsgInvalidResetToken)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewCustomError(apperrors.ErrTokenInvalid, MsgInvalidResetToken)
		}
		return err
	}
	// iat has second precision
	if user.PasswordChangedAt != nil && !user.PasswordChangedAt.Truncate(time.Second).Before(issuedAt) {
		return apperrors.NewCustomError(apperrors.ErrTokenInvalid, MsgResetTokenUsed)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewCustomError(apperrors.ErrTokenInvalid, MsgInvalidResetToken)
		}
		return err
	}

	s.logger.Info().Int64("userID", userID).Msg("Password reset")
	return nil
}

func (s *authServiceImpl) Unsubscribe(ctx context.Context, token string) error {
	emailAddr, err := s.tokens.ValidateUnsubscribeToken(token)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrTokenInvalid, MsgInvalidUnsubscribe)
	}

	user, err := s.userRepo.Unsubscribe(ctx, emailAddr)
	if err != nil {
		return err
	}

	if s.email != nil {
		if err := s.email.SendUnsubscribeConfirmation(user.Email, user.Name); err != nil {
			s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send unsubscribe confirmation")
		}
	}
	return nil
}
