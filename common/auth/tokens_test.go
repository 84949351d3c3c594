package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService("x", 0)
	assert.Error(t, err)
}

func TestGenerateAndParse(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	tok, err := svc.GenerateAccessToken("64b7f0c2a1b2c3d4e5f60718", "ann@example.com", "ann")
	require.NoError(t, err)

	claims, err := svc.ParseAndValidateToken(tok, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "ann", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParse_Rejections(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewTokenService("other-secret", time.Hour)
		tok, _ := other.GenerateAccessToken("id", "e", "u")
		_, err := svc.ParseAndValidateToken(tok, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := &TokenService{secretKey: []byte("test-secret"), ttl: time.Minute, now: func() time.Time {
			return time.Now().Add(-time.Hour)
		}}
		tok, _ := past.GenerateAccessToken("id", "e", "u")
		_, err := svc.ParseAndValidateToken(tok, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong type", func(t *testing.T) {
		claims := Claims{Type: "refresh", RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.ParseAndValidateToken(tok, TokenTypeAccess)
		assert.Error(t, err)
	})

	t.Run("alg none", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ParseAndValidateToken(tok, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseAndValidateToken("not.a.jwt", "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
