package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
)

func TestValidateOwnership(t *testing.T) {
	authz := NewAuthorizationService()
	owner := auth.Identity{UserID: 7}
	stranger := auth.Identity{UserID: 8}
	admin := auth.Identity{UserID: 9, IsAdmin: true}

	assert.NoError(t, authz.ValidateOwnership(owner, ResourcePost, 7))

	err := authz.ValidateOwnership(stranger, ResourcePost, 7)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "You can only modify your own post", apperrors.PublicMessage(err, ""))

	// admins moderate freelance listings only
	assert.NoError(t, authz.ValidateOwnership(admin, ResourceFreelance, 7))
	assert.ErrorIs(t, authz.ValidateOwnership(admin, ResourceComment, 7), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, authz.ValidateOwnership(admin, ResourceCircle, 7), apperrors.ErrPermissionDenied)
}

func TestAnonymousNeverOwns(t *testing.T) {
	authz := NewAuthorizationService()
	assert.False(t, authz.CanModify(auth.Identity{}, ResourceVideo, 0))
}

func TestEveryResourceHasPolicy(t *testing.T) {
	for _, r := range []Resource{
		ResourcePost, ResourceComment, ResourceTopic, ResourceCircle, ResourceMessage,
		ResourceFreelance, ResourceResume, ResourceVideo, ResourceUserAccount,
	} {
		_, ok := policies[r]
		assert.True(t, ok, r)
	}
}
