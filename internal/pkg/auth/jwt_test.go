package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:            "access-secret",
		UnsubscribeSecretKey: "unsubscribe-secret",
		AccessTokenExp:       7 * 24 * time.Hour,
		ResetTokenExp:        time.Hour,
		UnsubscribeExp:       90 * 24 * time.Hour,
		TokenIssuer:          "ypropel-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateAccessToken(Identity{UserID: 42, Email: "a@x.com", IsAdmin: true})
	require.NoError(t, err)

	identity, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Email: "a@x.com", IsAdmin: true}, identity)
}

func TestAccessTokenExpiresAfterSevenDays(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateAccessToken(Identity{UserID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(7*24*time.Hour - time.Minute) }
	_, err = svc.ValidateAccessToken(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(7*24*time.Hour + time.Minute) }
	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestResetTokenLifetimeAndPurpose(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	reset, err := svc.GenerateResetToken(7, "a@x.com")
	require.NoError(t, err)

	userID, issuedAt, err := svc.ValidateResetToken(reset)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, issued.Unix(), issuedAt.Unix())

	// a reset token is not a login token
	_, err = svc.ValidateAccessToken(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, _, err = svc.ValidateResetToken(reset)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestUnsubscribeTokenUsesSeparateSecret(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateUnsubscribeToken("a@x.com")
	require.NoError(t, err)

	email, err := svc.ValidateUnsubscribeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	other := NewJWTService(JWTConfig{SecretKey: "access-secret", UnsubscribeSecretKey: "different", UnsubscribeExp: time.Hour})
	_, err = other.ValidateUnsubscribeToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("bearer   xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	_, err = ExtractBearerToken("Basic abc")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "secret123"))

	pw, err := RandomPassword()
	require.NoError(t, err)
	assert.Len(t, pw, 48)
}
