package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
)

func TestSignupThenSignin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Auth.Signup(ctx, &dto.SignupRequest{Name: " Ada ", Email: "Ada@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", resp.User.Name)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "welcome", f.mailer.last().kind)

	identity, err := f.tokens.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)

	signin, err := f.svc.Auth.Signin(ctx, &dto.SigninRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, signin.User.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := &dto.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}

	_, err := f.svc.Auth.Signup(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Auth.Signup(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestSigninRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "grace")

	_, err := f.svc.Auth.Signin(ctx, &dto.SigninRequest{Email: "grace@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Auth.Signin(ctx, &dto.SigninRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, MsgInvalidCredentials, apperrors.PublicMessage(err, ""))
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "linus")

	require.NoError(t, f.svc.Auth.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, f.mailer.last().kind)

	require.NoError(t, f.svc.Auth.ForgotPassword(ctx, "LINUS@example.com"))
	mail := f.mailer.last()
	require.Equal(t, "reset", mail.kind)

	require.NoError(t, f.svc.Auth.ResetPassword(ctx, mail.token, "new-password"))
	_, err := f.svc.Auth.Signin(ctx, &dto.SigninRequest{Email: "linus@example.com", Password: "new-password"})
	assert.NoError(t, err)

	err = f.svc.Auth.ResetPassword(ctx, "garbage", "new-password")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestResetLinkIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "barbara")

	require.NoError(t, f.svc.Auth.ForgotPassword(ctx, "barbara@example.com"))
	token := f.mailer.last().token

	require.NoError(t, f.svc.Auth.ResetPassword(ctx, token, "first-password"))

	err := f.svc.Auth.ResetPassword(ctx, token, "second-password")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	assert.Equal(t, MsgResetTokenUsed, apperrors.PublicMessage(err, ""))

	_, err = f.svc.Auth.Signin(ctx, &dto.SigninRequest{Email: "barbara@example.com", Password: "first-password"})
	assert.NoError(t, err)
}

func TestResetRejectsAccessToken(t *testing.T) {
	f := newFixture(t)
	id := f.member(t, "ken")
	access, err := f.tokens.GenerateAccessToken(id)
	require.NoError(t, err)

	err = f.svc.Auth.ResetPassword(context.Background(), access, "new-password")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.member(t, "barbara")

	token, err := f.tokens.GenerateUnsubscribeToken(id.Email)
	require.NoError(t, err)
	require.NoError(t, f.svc.Auth.Unsubscribe(ctx, token))

	user, err := f.svc.User.GetMe(ctx, id.UserID)
	require.NoError(t, err)
	assert.True(t, user.EmailUnsubscribed)
	assert.Equal(t, "unsubscribe", f.mailer.last().kind)
}

func TestGoogleSignin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := f.member(t, "alan")

	t.Run("links an existing account by email", func(t *testing.T) {
		f.google.profile = &auth.GoogleProfile{Sub: "g-1", Email: "alan@example.com", Name: "Alan"}
		resp, err := f.svc.Auth.GoogleSignin(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, existing.UserID, resp.User.ID)

		again, err := f.svc.Auth.GoogleSignin(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, existing.UserID, again.User.ID)
	})

	t.Run("provisions a new account", func(t *testing.T) {
		f.google.profile = &auth.GoogleProfile{Sub: "g-2", Email: "edsger@example.com"}
		resp, err := f.svc.Auth.GoogleSignin(ctx, "id-token")
		require.NoError(t, err)
		assert.NotEqual(t, existing.UserID, resp.User.ID)
		assert.Equal(t, "edsger", resp.User.Name)
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		f.google.profile, f.google.err = nil, errors.New("bad signature")
		_, err := f.svc.Auth.GoogleSignin(ctx, "id-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}
