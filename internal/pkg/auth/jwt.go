package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// Token purposes. A token signed for one purpose is rejected by the others.
const (
	PurposeAccess        = "access"
	PurposePasswordReset = "password_reset"
	PurposeUnsubscribe   = "unsubscribe"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey            string
	UnsubscribeSecretKey string
	AccessTokenExp       time.Duration
	ResetTokenExp        time.Duration
	UnsubscribeExp       time.Duration
	TokenIssuer          string
}

// Identity is what an authenticated request carries through the handlers
type Identity struct {
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Claims defines JWT token content
type Claims struct {
	UserID  int64  `json:"userId,omitempty"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Identity converts the claims of an access token into an Identity
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, IsAdmin: c.IsAdmin}
}

// JWTService issues and validates every token the API hands out
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config, now: time.Now}
}

func (s *JWTService) sign(claims *Claims, ttl time.Duration, secret string) (string, error) {
	issuedAt := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		Issuer:    s.config.TokenIssuer,
		ID:        uuid.New().String(),
	}
	if claims.UserID > 0 {
		claims.Subject = fmt.Sprintf("%d", claims.UserID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", claims.Purpose, err)
	}
	return signed, nil
}

// GenerateAccessToken issues the login token
func (s *JWTService) GenerateAccessToken(identity Identity) (string, error) {
	return s.sign(&Claims{
		UserID:  identity.UserID,
		Email:   identity.Email,
		IsAdmin: identity.IsAdmin,
		Purpose: PurposeAccess,
	}, s.config.AccessTokenExp, s.config.SecretKey)
}

// GenerateResetToken issues a short lived password reset token
func (s *JWTService) GenerateResetToken(userID int64, email string) (string, error) {
	return s.sign(&Claims{
		UserID:  userID,
		Email:   email,
		Purpose: PurposePasswordReset,
	}, s.config.ResetTokenExp, s.config.SecretKey)
}

// GenerateUnsubscribeToken issues the token embedded in email footers.
// It is signed with its own secret.
func (s *JWTService) GenerateUnsubscribeToken(email string) (string, error) {
	return s.sign(&Claims{
		Email:   email,
		Purpose: PurposeUnsubscribe,
	}, s.config.UnsubscribeExp, s.config.UnsubscribeSecretKey)
}

func (s *JWTService) parse(tokenString, secret, purpose string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidFormat
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccessToken validates a login token and returns its identity
func (s *JWTService) ValidateAccessToken(tokenString string) (Identity, error) {
	claims, err := s.parse(tokenString, s.config.SecretKey, PurposeAccess)
	if err != nil {
		return Identity{}, err
	}
	if claims.UserID <= 0 {
		return Identity{}, ErrInvalidToken
	}
	return claims.Identity(), nil
}

// ValidateResetToken returns the user id a reset token was issued for and
// when it was issued. Callers compare the issue time against the last
// password change to refuse a token that was already used.
func (s *JWTService) ValidateResetToken(tokenString string) (int64, time.Time, error) {
	claims, err := s.parse(tokenString, s.config.SecretKey, PurposePasswordReset)
	if err != nil {
		return 0, time.Time{}, err
	}
	if claims.UserID <= 0 || claims.IssuedAt == nil {
		return 0, time.Time{}, ErrInvalidToken
	}
	return claims.UserID, claims.IssuedAt.Time, nil
}

// ValidateUnsubscribeToken returns the email an unsubscribe link was issued for
func (s *JWTService) ValidateUnsubscribeToken(tokenString string) (string, error) {
	claims, err := s.parse(tokenString, s.config.UnsubscribeSecretKey, PurposeUnsubscribe)
	if err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidFormat
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}
