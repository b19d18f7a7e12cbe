package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.member(t, "me")
	f.lookups.Seed(repositories.LookupMajors, "Computer Science")
	majors, err := f.svc.Lookup.List(ctx, repositories.LookupMajors, nil)
	require.NoError(t, err)
	require.Len(t, majors, 1)

	_, err = f.svc.User.UpdateProfile(ctx, me.UserID, map[string]any{"is_admin": true, "email": "x@y.z"})
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsToUpdate)

	_, err = f.svc.User.UpdateProfile(ctx, me.UserID, map[string]any{"major_id": float64(999)})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	user, err := f.svc.User.UpdateProfile(ctx, me.UserID, map[string]any{
		"title":    "Student",
		"major_id": float64(majors[0].ID),
		"is_admin": true,
	})
	require.NoError(t, err)
	require.NotNil(t, user.Title)
	assert.Equal(t, "Student", *user.Title)
	require.NotNil(t, user.MajorID)
	assert.Equal(t, majors[0].ID, *user.MajorID)
	assert.False(t, user.IsAdmin)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.member(t, "me")

	err := f.svc.User.ChangePassword(ctx, me.UserID, &dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "another-pass"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	require.NoError(t, f.svc.User.ChangePassword(ctx, me.UserID, &dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "another-pass"}))
	_, err = f.svc.Auth.Signin(ctx, &dto.SigninRequest{Email: me.Email, Password: "another-pass"})
	assert.NoError(t, err)
}

func TestDirectoryHidesPrivateFields(t *testing.T) {
	f := newFixture(t)
	f.member(t, "alpha")
	f.member(t, "beta")

	page, err := f.svc.User.Directory(context.Background(), dto.UserFilter{Search: "alp", Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alpha", page.Items[0].Name)
}

func TestAdminCannotTargetSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.member(t, "admin")
	other := f.member(t, "other")

	assert.ErrorIs(t, f.svc.Admin.SetAdmin(ctx, admin.UserID, admin.UserID, false), apperrors.ErrBadRequest)
	assert.ErrorIs(t, f.svc.Admin.DeleteUser(ctx, admin.UserID, admin.UserID), apperrors.ErrBadRequest)

	require.NoError(t, f.svc.Admin.SetAdmin(ctx, admin.UserID, other.UserID, true))
	user, err := f.svc.User.GetMe(ctx, other.UserID)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	require.NoError(t, f.svc.Admin.DeleteUser(ctx, admin.UserID, other.UserID))
	_, err = f.svc.User.GetMe(ctx, other.UserID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
