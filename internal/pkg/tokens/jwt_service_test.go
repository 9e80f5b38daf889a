package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestService() IJwtService {
	return NewJwtService("test-secret-key", "carfinder", "carfinder-clients", time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	claims := AccessClaims{
		UserId:        "8d7f5a52-9c7e-4a46-b6a5-111111111111",
		Email:         "jane@example.com",
		FullName:      "Jane Doe",
		EmailVerified: true,
	}

	token, err := svc.GenerateAccessToken(claims)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := svc.ParseAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, claims.UserId, parsed.UserId)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, claims.FullName, parsed.FullName)
	assert.True(t, parsed.EmailVerified)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewJwtService("different-secret", "carfinder", "carfinder-clients", time.Hour)

	token, err := svc.GenerateAccessToken(AccessClaims{UserId: "abc"})
	assert.NoError(t, err)

	_, err = other.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	other := NewJwtService("test-secret-key", "someone-else", "carfinder-clients", time.Hour)
	svc := newTestService()

	token, err := other.GenerateAccessToken(AccessClaims{UserId: "abc"})
	assert.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	expired := NewJwtService("test-secret-key", "carfinder", "carfinder-clients", -time.Minute)

	token, err := expired.GenerateAccessToken(AccessClaims{UserId: "abc"})
	assert.NoError(t, err)

	_, err = expired.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestGenerateRefreshTokenIsOpaqueAndUnique(t *testing.T) {
	svc := newTestService()

	t1, err := svc.GenerateRefreshToken()
	assert.NoError(t, err)
	t2, err := svc.GenerateRefreshToken()
	assert.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	// 64 bytes base64-encoded
	assert.Equal(t, 88, len(t1))
}

func TestTokenExpiration(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(AccessClaims{UserId: "abc"})
	assert.NoError(t, err)

	exp := svc.TokenExpiration(token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	assert.True(t, svc.TokenExpiration("not-a-token").IsZero())
}
