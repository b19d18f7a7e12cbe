package auth

import (
	"fmt"

	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/logger"
)

// Resource names a kind of owned row
type Resource string

const (
	ResourcePost        Resource = "post"
	ResourceComment     Resource = "comment"
	ResourceTopic       Resource = "discussion topic"
	ResourceCircle      Resource = "study circle"
	ResourceMessage     Resource = "message"
	ResourceFreelance   Resource = "freelance service"
	ResourceResume      Resource = "resume"
	ResourceVideo       Resource = "video"
	ResourceUserAccount Resource = "account"
)

// policy records whether admins may act on rows they do not own
type policy struct {
	adminBypass bool
}

// Only freelance listings can be moderated by admins. Every other owned
// resource is restricted to its owner even for admins.
var policies = map[Resource]policy{
	ResourcePost:        {},
	ResourceComment:     {},
	ResourceTopic:       {},
	ResourceCircle:      {},
	ResourceMessage:     {},
	ResourceFreelance:   {adminBypass: true},
	ResourceResume:      {},
	ResourceVideo:       {},
	ResourceUserAccount: {},
}

// AuthorizationService decides whether an identity may modify a row
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// AdminBypass reports whether admins may modify rows of resource they do not own
func (s *AuthorizationService) AdminBypass(resource Resource) bool {
	return policies[resource].adminBypass
}

// CanModify reports whether identity may edit or delete a row owned by ownerID
func (s *AuthorizationService) CanModify(identity auth.Identity, resource Resource, ownerID int64) bool {
	if identity.UserID > 0 && identity.UserID == ownerID {
		return true
	}
	return identity.IsAdmin && s.AdminBypass(resource)
}

// ValidateOwnership returns a permission error when identity may not modify the row
func (s *AuthorizationService) ValidateOwnership(identity auth.Identity, resource Resource, ownerID int64) error {
	if s.CanModify(identity, resource, ownerID) {
		return nil
	}
	logger.Debug().
		Int64("userID", identity.UserID).
		Int64("ownerID", ownerID).
		Str("resource", string(resource)).
		Msg("Ownership check failed")
	return apperrors.NewForbiddenError(ForbiddenMessage(resource))
}

// ForbiddenMessage is the client facing text of a failed ownership check
func ForbiddenMessage(resource Resource) string {
	if policies[resource].adminBypass {
		return fmt.Sprintf("Only the owner or an admin can modify this %s", resource)
	}
	return fmt.Sprintf("You can only modify your own %s", resource)
}
