package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/pkg/auth"
)

// Context keys written by JWTAuth
const (
	ContextIdentityKey = "identity"
	ContextUserIDKey   = "userID"
	ContextEmailKey    = "email"
	ContextIsAdminKey  = "isAdmin"
)

// AdminRequiredMessage is returned to authenticated non-admin callers of admin routes
const AdminRequiredMessage = "Admin access required"

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	tokens TokenValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// JWTAuth rejects requests without a bearer token (401) or with a token that
// fails verification (403). On success the caller's identity is attached to
// the context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Browsers cannot set headers on websocket upgrades
		if authHeader == "" && isWebsocketUpgrade(c.Request) {
			if queryToken := c.Query("token"); queryToken != "" {
				authHeader = "Bearer " + queryToken
			}
		}

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse("Forbidden"))
			return
		}

		identity, err := m.tokens.ValidateAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse("Forbidden"))
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextEmailKey, identity.Email)
		c.Set(ContextIsAdminKey, identity.IsAdmin)

		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid bearer token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization")); err == nil {
			if identity, err := m.tokens.ValidateAccessToken(tokenString); err == nil {
				c.Set(ContextIdentityKey, identity)
				c.Set(ContextUserIDKey, identity.UserID)
				c.Set(ContextEmailKey, identity.Email)
				c.Set(ContextIsAdminKey, identity.IsAdmin)
			}
		}
		c.Next()
	}
}

// AdminRequired must run after JWTAuth
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
			return
		}
		if !identity.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(AdminRequiredMessage))
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by JWTAuth or OptionalAuth
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}

// CurrentUserID returns the authenticated user id, or 0 for anonymous requests
func CurrentUserID(c *gin.Context) int64 {
	identity, _ := CurrentIdentity(c)
	return identity.UserID
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
